package repository

import (
	"context"
	"database/sql"
)

// CategoryRepo handles categories.
type CategoryRepo struct {
	q Querier
}

func NewCategoryRepo(q Querier) *CategoryRepo { return &CategoryRepo{q: q} }

func (r *CategoryRepo) Insert(ctx context.Context, c Category) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	INSERT INTO categories(name, type, color_code, icon, is_system, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, c.Name, c.Type, c.ColorCode, c.Icon, c.IsSystem)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CategoryRepo) Update(ctx context.Context, c Category) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
	UPDATE categories
	SET name = ?, type = ?, color_code = ?, icon = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, c.Name, c.Type, c.ColorCode, c.Icon, c.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a category. Transactions referencing it keep their rows;
// the foreign key nulls the reference out.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get returns the category by id, or nil when absent.
func (r *CategoryRepo) Get(ctx context.Context, id int64) (*Category, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, name, type, color_code, icon, is_system, created_at, updated_at FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	return r.list(ctx, `SELECT id, name, type, color_code, icon, is_system, created_at, updated_at FROM categories ORDER BY name ASC`)
}

func (r *CategoryRepo) ListByType(ctx context.Context, t TransactionType) ([]Category, error) {
	return r.list(ctx, `SELECT id, name, type, color_code, icon, is_system, created_at, updated_at FROM categories WHERE type = ? ORDER BY name ASC`, t)
}

// Count reports the number of category rows; the seeder uses it to decide
// whether defaults are needed.
func (r *CategoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

func (r *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]Category, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCategory(row scanner) (Category, error) {
	var c Category
	var color, icon sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &color, &icon, &c.IsSystem, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Category{}, err
	}
	if color.Valid {
		c.ColorCode = &color.String
	}
	if icon.Valid {
		c.Icon = &icon.String
	}
	return c, nil
}
