package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ledgerbook/internal/database"
	"ledgerbook/internal/database/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	repo := repository.NewPeriodRepo(db)

	first, err := repo.Resolve(ctx, 2025, 3)
	require.NoError(t, err)
	require.Equal(t, 2025, first.Year)
	require.Equal(t, 3, first.Month)
	require.NotZero(t, first.ID)

	again, err := repo.Resolve(ctx, 2025, 3)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	// parent year was auto-vivified
	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_years WHERE year = 2025`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestCreateYearEagerTwelveMonths(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)

	require.NoError(t, database.WithTx(db, func(tx *sql.Tx) error {
		return repository.NewPeriodRepo(tx).CreateYear(ctx, 2024)
	}))
	// creating the same year again must not duplicate periods
	require.NoError(t, database.WithTx(db, func(tx *sql.Tx) error {
		return repository.NewPeriodRepo(tx).CreateYear(ctx, 2024)
	}))

	tree, err := repository.NewPeriodRepo(db).Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Equal(t, 2024, tree[0].Year)
	require.Len(t, tree[0].Periods, 12)
	for i, p := range tree[0].Periods {
		require.Equal(t, i+1, p.Month)
	}
}

func TestTreeOrdering(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	repo := repository.NewPeriodRepo(db)

	_, err := repo.Resolve(ctx, 2023, 5)
	require.NoError(t, err)
	_, err = repo.Resolve(ctx, 2025, 11)
	require.NoError(t, err)
	_, err = repo.Resolve(ctx, 2025, 2)
	require.NoError(t, err)

	// a year row with no periods at all
	_, err = db.ExecContext(ctx, `INSERT INTO ledger_years(year) VALUES (2020)`)
	require.NoError(t, err)

	tree, err := repo.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 3)
	require.Equal(t, 2025, tree[0].Year)
	require.Equal(t, 2023, tree[1].Year)
	require.Equal(t, 2020, tree[2].Year)

	require.Len(t, tree[0].Periods, 2)
	require.Equal(t, 2, tree[0].Periods[0].Month)
	require.Equal(t, 11, tree[0].Periods[1].Month)

	require.NotNil(t, tree[2].Periods)
	require.Empty(t, tree[2].Periods)
}

func TestDeleteYearCascades(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	periods := repository.NewPeriodRepo(db)
	txns := repository.NewTransactionRepo(db)

	period, err := periods.Resolve(ctx, 2025, 7)
	require.NoError(t, err)
	_, err = txns.Insert(ctx, repository.Transaction{
		LedgerPeriodID: period.ID,
		Title:          "Groceries",
		AmountCents:    4250,
		Date:           time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
		Type:           repository.TypeExpense,
	})
	require.NoError(t, err)

	affected, err := periods.DeleteYear(ctx, 2025)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_periods`).Scan(&n))
	require.Zero(t, n)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n))
	require.Zero(t, n)

	// deleting an absent year is a no-op
	affected, err = periods.DeleteYear(ctx, 2025)
	require.NoError(t, err)
	require.Zero(t, affected)
}
