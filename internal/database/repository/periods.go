package repository

import (
	"context"
	"database/sql"
)

// PeriodRepo manages the year/month hierarchy.
type PeriodRepo struct {
	q Querier
}

func NewPeriodRepo(q Querier) *PeriodRepo { return &PeriodRepo{q: q} }

// Resolve returns the period for (year, month), creating the year and the
// month row if either is missing. Calling it twice returns the same id.
// Run it inside a transaction when a dependent insert follows.
func (r *PeriodRepo) Resolve(ctx context.Context, year, month int) (LedgerPeriod, error) {
	if _, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO ledger_years(year) VALUES (?)`, year); err != nil {
		return LedgerPeriod{}, err
	}
	if _, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO ledger_periods(year, month) VALUES (?, ?)`, year, month); err != nil {
		return LedgerPeriod{}, err
	}
	return r.getByYearMonth(ctx, year, month)
}

// CreateYear inserts the year row and all twelve period rows. Existing rows
// are left untouched. The caller wraps this in a transaction so a crash
// never leaves a half-created year.
func (r *PeriodRepo) CreateYear(ctx context.Context, year int) error {
	if _, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO ledger_years(year) VALUES (?)`, year); err != nil {
		return err
	}
	for month := 1; month <= 12; month++ {
		if _, err := r.q.ExecContext(ctx, `INSERT OR IGNORE INTO ledger_periods(year, month) VALUES (?, ?)`, year, month); err != nil {
			return err
		}
	}
	return nil
}

// DeleteYear removes a year; foreign keys cascade to its periods and their
// transactions. Returns the number of year rows removed (0 when absent).
func (r *PeriodRepo) DeleteYear(ctx context.Context, year int) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM ledger_years WHERE year = ?`, year)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get returns the period by id, or nil when absent.
func (r *PeriodRepo) Get(ctx context.Context, id int64) (*LedgerPeriod, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, year, month, created_at FROM ledger_periods WHERE id = ?`, id)
	var p LedgerPeriod
	if err := row.Scan(&p.ID, &p.Year, &p.Month, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Tree returns years sorted descending, each with its periods sorted by
// month ascending. Years without periods carry an empty slice.
func (r *PeriodRepo) Tree(ctx context.Context) ([]TreeYear, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT year FROM ledger_years ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := r.q.QueryContext(ctx, `SELECT id, year, month, created_at FROM ledger_periods ORDER BY year DESC, month ASC`)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	byYear := make(map[int][]LedgerPeriod)
	for prows.Next() {
		var p LedgerPeriod
		if err := prows.Scan(&p.ID, &p.Year, &p.Month, &p.CreatedAt); err != nil {
			return nil, err
		}
		byYear[p.Year] = append(byYear[p.Year], p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}

	out := make([]TreeYear, 0, len(years))
	for _, y := range years {
		periods := byYear[y]
		if periods == nil {
			periods = []LedgerPeriod{}
		}
		out = append(out, TreeYear{Year: y, Periods: periods})
	}
	return out, nil
}

func (r *PeriodRepo) getByYearMonth(ctx context.Context, year, month int) (LedgerPeriod, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, year, month, created_at FROM ledger_periods WHERE year = ? AND month = ?`, year, month)
	var p LedgerPeriod
	err := row.Scan(&p.ID, &p.Year, &p.Month, &p.CreatedAt)
	return p, err
}
