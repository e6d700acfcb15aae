package database

import (
	"context"
	"database/sql"

	"ledgerbook/internal/database/repository"
)

// SeedDefaults inserts starter categories and a default Cash account into a
// fresh database. Each table is seeded only while it is empty (row count,
// not name matching), so the step goes permanently inert for a table once
// any row has ever existed in it.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	if err := seedCategories(ctx, db); err != nil {
		return err
	}
	return seedAccounts(ctx, db)
}

func seedCategories(ctx context.Context, db *sql.DB) error {
	n, err := repository.NewCategoryRepo(db).Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	defaults := []repository.Category{
		{Name: "Salary", Type: repository.TypeIncome, Icon: ptr("💼")},
		{Name: "Freelance", Type: repository.TypeIncome, Icon: ptr("💻")},
		{Name: "Investments", Type: repository.TypeIncome, Icon: ptr("📈")},
		{Name: "Other Income", Type: repository.TypeIncome, Icon: ptr("💰")},
		{Name: "Food & Dining", Type: repository.TypeExpense, Icon: ptr("🍔")},
		{Name: "Transportation", Type: repository.TypeExpense, Icon: ptr("🚗")},
		{Name: "Shopping", Type: repository.TypeExpense, Icon: ptr("🛒")},
		{Name: "Entertainment", Type: repository.TypeExpense, Icon: ptr("🎬")},
		{Name: "Bills & Utilities", Type: repository.TypeExpense, Icon: ptr("📄")},
		{Name: "Healthcare", Type: repository.TypeExpense, Icon: ptr("🏥")},
		{Name: "Other Expense", Type: repository.TypeExpense, Icon: ptr("📦")},
	}

	return WithTx(db, func(tx *sql.Tx) error {
		repo := repository.NewCategoryRepo(tx)
		for _, c := range defaults {
			c.IsSystem = true
			if _, err := repo.Insert(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedAccounts(ctx context.Context, db *sql.DB) error {
	n, err := repository.NewAccountRepo(db).Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return WithTx(db, func(tx *sql.Tx) error {
		_, err := repository.NewAccountRepo(tx).Insert(ctx, repository.Account{
			Name:      "Cash",
			Type:      repository.AccountCash,
			Icon:      ptr("💵"),
			IsDefault: true,
		})
		return err
	})
}

func ptr(s string) *string { return &s }
