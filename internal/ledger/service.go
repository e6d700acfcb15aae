// Package ledger exposes the data-access contract for the finance ledger:
// period hierarchy management, entity CRUD, derived queries, and account
// balance maintenance. It is the only way the rest of the application
// touches the database.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"ledgerbook/internal/database"
	"ledgerbook/internal/database/repository"
	"ledgerbook/internal/log"
)

// Service wraps the repositories behind the ledger contract. The currently
// selected period is always an explicit parameter, never service state.
type Service struct {
	db  *sql.DB
	log *log.Logger

	initOnce sync.Once
	initErr  error
}

// New builds a service over an open database. Schema and seed data are
// applied lazily on first use, so callers never need to sequence
// Initialize explicitly.
func New(db *sql.DB, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{db: db, log: logger.WithComponent("ledger")}
}

// Initialize runs migrations and seeds defaults. Safe to call on every
// start; every public method calls it transitively.
func (s *Service) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		if err := database.RunMigrations(s.db); err != nil {
			s.initErr = fmt.Errorf("migrate: %w", err)
			return
		}
		if err := database.SeedDefaults(ctx, s.db); err != nil {
			s.initErr = fmt.Errorf("seed: %w", err)
			return
		}
		s.log.Debug("database ready")
	})
	return s.initErr
}

// ---- Period hierarchy ----

// ResolvePeriod returns the period for (year, month), creating the year and
// month rows if absent. Idempotent.
func (s *Service) ResolvePeriod(ctx context.Context, year, month int) (repository.LedgerPeriod, error) {
	if err := s.Initialize(ctx); err != nil {
		return repository.LedgerPeriod{}, err
	}
	if err := validateYear(year); err != nil {
		return repository.LedgerPeriod{}, err
	}
	if err := validateMonth(month); err != nil {
		return repository.LedgerPeriod{}, err
	}
	var period repository.LedgerPeriod
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		var err error
		period, err = repository.NewPeriodRepo(tx).Resolve(ctx, year, month)
		return err
	})
	return period, err
}

// CreateYear creates the year and all twelve of its periods in one
// transaction. Existing rows are untouched.
func (s *Service) CreateYear(ctx context.Context, year int) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if err := validateYear(year); err != nil {
		return err
	}
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		return repository.NewPeriodRepo(tx).CreateYear(ctx, year)
	})
	if err == nil {
		s.log.Info("year created", "year", year)
	}
	return err
}

// CreateMonth ensures a single (year, month) period exists and returns it.
func (s *Service) CreateMonth(ctx context.Context, year, month int) (repository.LedgerPeriod, error) {
	return s.ResolvePeriod(ctx, year, month)
}

// DeleteYear removes a year and, via cascade, its periods and their
// transactions. A missing year is a no-op. Destructive; the caller confirms
// before invoking.
func (s *Service) DeleteYear(ctx context.Context, year int) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	if err := validateYear(year); err != nil {
		return err
	}
	affected, err := repository.NewPeriodRepo(s.db).DeleteYear(ctx, year)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.log.Info("year deleted", "year", year)
	}
	return nil
}

// Tree returns the ledger tree: years descending, months ascending.
func (s *Service) Tree(ctx context.Context) ([]repository.TreeYear, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewPeriodRepo(s.db).Tree(ctx)
}

// ---- Categories ----

// CreateCategory validates and inserts a category, returning its id.
func (s *Service) CreateCategory(ctx context.Context, c repository.Category) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	if err := validateCategory(c); err != nil {
		return 0, err
	}
	id, err := repository.NewCategoryRepo(s.db).Insert(ctx, c)
	if err != nil {
		return 0, err
	}
	s.log.Info("category created", "id", id, "name", c.Name)
	return id, nil
}

// UpdateCategory rewrites a category. Returns the affected row count; a
// missing id yields zero, not an error.
func (s *Service) UpdateCategory(ctx context.Context, c repository.Category) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	if err := validateCategory(c); err != nil {
		return 0, err
	}
	return repository.NewCategoryRepo(s.db).Update(ctx, c)
}

// DeleteCategory removes a category; transactions that referenced it stay
// behind with a nulled category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	return repository.NewCategoryRepo(s.db).Delete(ctx, id)
}

// GetCategory returns nil when the id is unknown.
func (s *Service) GetCategory(ctx context.Context, id int64) (*repository.Category, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewCategoryRepo(s.db).Get(ctx, id)
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]repository.Category, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewCategoryRepo(s.db).List(ctx)
}

// CategoriesByType returns categories with the given affinity, by name.
func (s *Service) CategoriesByType(ctx context.Context, t repository.TransactionType) ([]repository.Category, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidType, t)
	}
	return repository.NewCategoryRepo(s.db).ListByType(ctx, t)
}

// ---- Accounts ----

// CreateAccount validates and inserts an account. When the new account is
// flagged default, the previous default is cleared in the same transaction.
func (s *Service) CreateAccount(ctx context.Context, a repository.Account) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	if err := validateAccount(a); err != nil {
		return 0, err
	}
	var id int64
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		repo := repository.NewAccountRepo(tx)
		if a.IsDefault {
			if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_default = 0 WHERE is_default = 1`); err != nil {
				return err
			}
		}
		var err error
		id, err = repo.Insert(ctx, a)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("account created", "id", id, "name", a.Name)
	return id, nil
}

// UpdateAccount rewrites descriptive fields only; balance and default flag
// are maintained through their dedicated operations.
func (s *Service) UpdateAccount(ctx context.Context, a repository.Account) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	if err := validateAccount(a); err != nil {
		return 0, err
	}
	return repository.NewAccountRepo(s.db).Update(ctx, a)
}

// DeleteAccount removes an account. Transactions keep their rows with the
// account reference nulled; a deleted default leaves no default until the
// user designates another.
func (s *Service) DeleteAccount(ctx context.Context, id int64) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	return repository.NewAccountRepo(s.db).Delete(ctx, id)
}

// GetAccount returns nil when the id is unknown.
func (s *Service) GetAccount(ctx context.Context, id int64) (*repository.Account, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewAccountRepo(s.db).Get(ctx, id)
}

// ListAccounts returns all accounts ordered by name.
func (s *Service) ListAccounts(ctx context.Context) ([]repository.Account, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewAccountRepo(s.db).List(ctx)
}

// DefaultAccount returns the default account, or nil when none exists.
func (s *Service) DefaultAccount(ctx context.Context) (*repository.Account, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewAccountRepo(s.db).GetDefault(ctx)
}

// SetDefaultAccount transfers the default flag atomically: the previous
// holder is cleared and the target set inside one transaction, so no
// intermediate state has zero or multiple defaults.
func (s *Service) SetDefaultAccount(ctx context.Context, id int64) error {
	if err := s.Initialize(ctx); err != nil {
		return err
	}
	return database.WithTx(s.db, func(tx *sql.Tx) error {
		affected, err := repository.NewAccountRepo(tx).SetDefault(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("account %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
