package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TransactionRepo handles transactions. Every list query denormalizes the
// category and account names so callers never issue follow-up lookups.
type TransactionRepo struct {
	q Querier
}

func NewTransactionRepo(q Querier) *TransactionRepo { return &TransactionRepo{q: q} }

const txSelect = `
	SELECT t.id, t.ledger_period_id, t.title, t.amount_cents, t.date, t.type, t.notes,
	       t.category_id, t.account_id, t.created_at, t.updated_at,
	       c.name, a.name
	FROM transactions t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN accounts a ON a.id = t.account_id`

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	INSERT INTO transactions(ledger_period_id, title, amount_cents, date, type, notes, category_id, account_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, t.LedgerPeriodID, t.Title, t.AmountCents, t.Date.Format(dateLayout), t.Type, t.Notes, t.CategoryID, t.AccountID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *TransactionRepo) Update(ctx context.Context, t Transaction) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	UPDATE transactions
	SET ledger_period_id = ?, title = ?, amount_cents = ?, date = ?, type = ?, notes = ?,
	    category_id = ?, account_id = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`,
		t.LedgerPeriodID, t.Title, t.AmountCents, t.Date.Format(dateLayout), t.Type, t.Notes,
		t.CategoryID, t.AccountID, t.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TransactionRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get returns the transaction by id with display fields, or nil when absent.
func (r *TransactionRepo) Get(ctx context.Context, id int64) (*Transaction, error) {
	row := r.q.QueryRowContext(ctx, txSelect+` WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ListByPeriod returns the period's transactions, newest first; same-day
// entries come back most-recently-inserted first. A missing period yields an
// empty result, not an error.
func (r *TransactionRepo) ListByPeriod(ctx context.Context, periodID int64) ([]Transaction, error) {
	return r.list(ctx, txSelect+` WHERE t.ledger_period_id = ? ORDER BY t.date DESC, t.id DESC`, periodID)
}

// ListByMonth returns transactions whose date falls in
// [first-of-month, first-of-next-month), with the same ordering as
// ListByPeriod. For any period that exists the two are result-identical.
func (r *TransactionRepo) ListByMonth(ctx context.Context, year, month int) ([]Transaction, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return r.list(ctx, txSelect+` WHERE t.date >= ? AND t.date < ? ORDER BY t.date DESC, t.id DESC`,
		start.Format(dateLayout), end.Format(dateLayout))
}

// ListRecent returns the newest transactions across all periods, each joined
// with its period's year and month for display.
func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]Transaction, error) {
	rows, err := r.q.QueryContext(ctx, `
	SELECT t.id, t.ledger_period_id, t.title, t.amount_cents, t.date, t.type, t.notes,
	       t.category_id, t.account_id, t.created_at, t.updated_at,
	       c.name, a.name, p.year, p.month
	FROM transactions t
	JOIN ledger_periods p ON p.id = t.ledger_period_id
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN accounts a ON a.id = t.account_id
	ORDER BY t.date DESC, t.id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		var t Transaction
		var notes, catName, acctName sql.NullString
		var catID, acctID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.LedgerPeriodID, &t.Title, &t.AmountCents, &t.Date, &t.Type, &notes,
			&catID, &acctID, &t.CreatedAt, &t.UpdatedAt, &catName, &acctName, &t.Year, &t.Month); err != nil {
			return nil, err
		}
		assignNullable(&t, notes, catName, acctName, catID, acctID)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListWithDetails returns every transaction with display fields, newest first.
func (r *TransactionRepo) ListWithDetails(ctx context.Context) ([]Transaction, error) {
	return r.list(ctx, txSelect+` ORDER BY t.date DESC, t.id DESC`)
}

// Summary sums amounts per type across all transactions. Empty table means
// all-zero totals, never an error.
func (r *TransactionRepo) Summary(ctx context.Context) (Summary, error) {
	row := r.q.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents END), 0),
	       COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents END), 0)
	FROM transactions`)
	var s Summary
	if err := row.Scan(&s.IncomeCents, &s.ExpenseCents); err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}
	s.BalanceCents = s.IncomeCents - s.ExpenseCents
	return s, nil
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var notes, catName, acctName sql.NullString
	var catID, acctID sql.NullInt64
	if err := row.Scan(&t.ID, &t.LedgerPeriodID, &t.Title, &t.AmountCents, &t.Date, &t.Type, &notes,
		&catID, &acctID, &t.CreatedAt, &t.UpdatedAt, &catName, &acctName); err != nil {
		return Transaction{}, err
	}
	assignNullable(&t, notes, catName, acctName, catID, acctID)
	return t, nil
}

func assignNullable(t *Transaction, notes, catName, acctName sql.NullString, catID, acctID sql.NullInt64) {
	if notes.Valid {
		t.Notes = &notes.String
	}
	if catName.Valid {
		t.CategoryName = &catName.String
	}
	if acctName.Valid {
		t.AccountName = &acctName.String
	}
	if catID.Valid {
		t.CategoryID = &catID.Int64
	}
	if acctID.Valid {
		t.AccountID = &acctID.Int64
	}
}
