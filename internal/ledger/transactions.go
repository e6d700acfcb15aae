package ledger

import (
	"context"
	"database/sql"
	"time"

	"ledgerbook/internal/database"
	"ledgerbook/internal/database/repository"
)

// TransactionInput carries the caller-settable fields of a transaction.
// AmountCents is always positive; Type carries the sign. The owning period
// is never supplied: it is derived from Date and auto-vivified.
type TransactionInput struct {
	Title       string
	AmountCents int64
	Date        time.Time
	Type        repository.TransactionType
	Notes       *string
	CategoryID  *int64
	AccountID   *int64
}

// signedDelta is the effect of a transaction on its account's balance.
func signedDelta(t repository.TransactionType, amountCents int64) int64 {
	if t == repository.TypeIncome {
		return amountCents
	}
	return -amountCents
}

// CreateTransaction validates the input, resolves (auto-vivifying) the
// period implied by the date, inserts the row, and applies the balance
// effect to the referenced account — all in one transaction.
func (s *Service) CreateTransaction(ctx context.Context, in TransactionInput) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactionInput(in); err != nil {
		return 0, err
	}
	var id int64
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		period, err := repository.NewPeriodRepo(tx).Resolve(ctx, in.Date.Year(), int(in.Date.Month()))
		if err != nil {
			return err
		}
		id, err = repository.NewTransactionRepo(tx).Insert(ctx, repository.Transaction{
			LedgerPeriodID: period.ID,
			Title:          in.Title,
			AmountCents:    in.AmountCents,
			Date:           in.Date,
			Type:           in.Type,
			Notes:          in.Notes,
			CategoryID:     in.CategoryID,
			AccountID:      in.AccountID,
		})
		if err != nil {
			return err
		}
		if in.AccountID != nil {
			return repository.NewAccountRepo(tx).AdjustBalance(ctx, *in.AccountID, signedDelta(in.Type, in.AmountCents))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("transaction created", "id", id, "type", in.Type, "amount_cents", in.AmountCents)
	return id, nil
}

// UpdateTransaction rewrites a transaction. The period reference is
// recomputed from the (possibly new) date and auto-vivified. For balances
// the edit counts as delete-then-reinsert: the old effect is reversed and
// the new one applied, so changing amount, type, or account never drifts.
// Returns the affected row count; a missing id yields zero, not an error.
func (s *Service) UpdateTransaction(ctx context.Context, id int64, in TransactionInput) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactionInput(in); err != nil {
		return 0, err
	}
	var affected int64
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		txRepo := repository.NewTransactionRepo(tx)
		old, err := txRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}
		period, err := repository.NewPeriodRepo(tx).Resolve(ctx, in.Date.Year(), int(in.Date.Month()))
		if err != nil {
			return err
		}
		affected, err = txRepo.Update(ctx, repository.Transaction{
			ID:             id,
			LedgerPeriodID: period.ID,
			Title:          in.Title,
			AmountCents:    in.AmountCents,
			Date:           in.Date,
			Type:           in.Type,
			Notes:          in.Notes,
			CategoryID:     in.CategoryID,
			AccountID:      in.AccountID,
		})
		if err != nil {
			return err
		}
		acctRepo := repository.NewAccountRepo(tx)
		if old.AccountID != nil {
			if err := acctRepo.AdjustBalance(ctx, *old.AccountID, -signedDelta(old.Type, old.AmountCents)); err != nil {
				return err
			}
		}
		if in.AccountID != nil {
			if err := acctRepo.AdjustBalance(ctx, *in.AccountID, signedDelta(in.Type, in.AmountCents)); err != nil {
				return err
			}
		}
		return nil
	})
	return affected, err
}

// DeleteTransaction removes a transaction and reverses its balance effect.
// Returns the affected row count; a missing id yields zero, not an error.
func (s *Service) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	if err := s.Initialize(ctx); err != nil {
		return 0, err
	}
	var affected int64
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		txRepo := repository.NewTransactionRepo(tx)
		old, err := txRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return nil
		}
		affected, err = txRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if old.AccountID != nil {
			return repository.NewAccountRepo(tx).AdjustBalance(ctx, *old.AccountID, -signedDelta(old.Type, old.AmountCents))
		}
		return nil
	})
	return affected, err
}

// GetTransaction returns nil when the id is unknown.
func (s *Service) GetTransaction(ctx context.Context, id int64) (*repository.Transaction, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewTransactionRepo(s.db).Get(ctx, id)
}

// TransactionsByPeriod lists a period's transactions, newest first.
func (s *Service) TransactionsByPeriod(ctx context.Context, periodID int64) ([]repository.Transaction, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewTransactionRepo(s.db).ListByPeriod(ctx, periodID)
}

// TransactionsByMonth lists transactions dated within (year, month).
func (s *Service) TransactionsByMonth(ctx context.Context, year, month int) ([]repository.Transaction, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	return repository.NewTransactionRepo(s.db).ListByMonth(ctx, year, month)
}

// RecentTransactions lists the newest transactions across all periods.
func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]repository.Transaction, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	return repository.NewTransactionRepo(s.db).ListRecent(ctx, limit)
}

// TransactionsWithDetails lists every transaction with display fields.
func (s *Service) TransactionsWithDetails(ctx context.Context) ([]repository.Transaction, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return repository.NewTransactionRepo(s.db).ListWithDetails(ctx)
}

// Summary returns ledger-wide totals; all zeros on an empty ledger.
func (s *Service) Summary(ctx context.Context) (repository.Summary, error) {
	if err := s.Initialize(ctx); err != nil {
		return repository.Summary{}, err
	}
	return repository.NewTransactionRepo(s.db).Summary(ctx)
}
