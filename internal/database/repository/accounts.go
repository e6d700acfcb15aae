package repository

import (
	"context"
	"database/sql"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	q Querier
}

func NewAccountRepo(q Querier) *AccountRepo { return &AccountRepo{q: q} }

func (r *AccountRepo) Insert(ctx context.Context, a Account) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	INSERT INTO accounts(name, account_type, institution, balance_cents, color, icon, is_default, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, a.Name, a.Type, a.Institution, a.BalanceCents, a.Color, a.Icon, a.IsDefault)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites the descriptive fields. Balance and the default flag have
// dedicated methods so routine edits cannot clobber them.
func (r *AccountRepo) Update(ctx context.Context, a Account) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	UPDATE accounts
	SET name = ?, account_type = ?, institution = ?, color = ?, icon = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, a.Name, a.Type, a.Institution, a.Color, a.Icon, a.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes an account. Transactions referencing it keep their rows
// with the reference nulled, mirroring category deletion. Deleting the
// default account leaves no default.
func (r *AccountRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get returns the account by id, or nil when absent.
func (r *AccountRepo) Get(ctx context.Context, id int64) (*Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, name, account_type, institution, balance_cents, color, icon, is_default, created_at, updated_at FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, account_type, institution, balance_cents, color, icon, is_default, created_at, updated_at FROM accounts ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetDefault returns the default account, or nil when none is designated.
func (r *AccountRepo) GetDefault(ctx context.Context) (*Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, name, account_type, institution, balance_cents, color, icon, is_default, created_at, updated_at FROM accounts WHERE is_default = 1`)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// SetDefault clears the current default then marks the target. Run inside a
// transaction so no reader observes zero or two defaults. Returns the number
// of rows marked (0 when the target does not exist).
func (r *AccountRepo) SetDefault(ctx context.Context, id int64) (int64, error) {
	if _, err := r.q.ExecContext(ctx, `UPDATE accounts SET is_default = 0, updated_at = CURRENT_TIMESTAMP WHERE is_default = 1`); err != nil {
		return 0, err
	}
	res, err := r.q.ExecContext(ctx, `UPDATE accounts SET is_default = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AdjustBalance applies a signed delta in cents to the stored balance.
func (r *AccountRepo) AdjustBalance(ctx context.Context, id int64, deltaCents int64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE accounts SET balance_cents = balance_cents + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, deltaCents, id)
	return err
}

// Count reports the number of account rows for the seeder's emptiness check.
func (r *AccountRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	var institution, color, icon sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &institution, &a.BalanceCents, &color, &icon, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, err
	}
	if institution.Valid {
		a.Institution = &institution.String
	}
	if color.Valid {
		a.Color = &color.String
	}
	if icon.Valid {
		a.Icon = &icon.String
	}
	return a, nil
}
