package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ledgerbook/internal/database/repository"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func insertTxn(t *testing.T, ctx context.Context, txns *repository.TransactionRepo, periods *repository.PeriodRepo, title string, typ repository.TransactionType, cents int64, day time.Time) int64 {
	t.Helper()
	period, err := periods.Resolve(ctx, day.Year(), int(day.Month()))
	require.NoError(t, err)
	id, err := txns.Insert(ctx, repository.Transaction{
		LedgerPeriodID: period.ID,
		Title:          title,
		AmountCents:    cents,
		Date:           day,
		Type:           typ,
	})
	require.NoError(t, err)
	return id
}

func TestListOrderingNewestFirst(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	txns := repository.NewTransactionRepo(db)
	periods := repository.NewPeriodRepo(db)

	early := insertTxn(t, ctx, txns, periods, "early", repository.TypeExpense, 100, date(2025, 3, 2))
	sameDayFirst := insertTxn(t, ctx, txns, periods, "same day first", repository.TypeExpense, 200, date(2025, 3, 20))
	sameDaySecond := insertTxn(t, ctx, txns, periods, "same day second", repository.TypeExpense, 300, date(2025, 3, 20))

	period, err := periods.Resolve(ctx, 2025, 3)
	require.NoError(t, err)
	got, err := txns.ListByPeriod(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// date desc, then id desc as tie-break
	require.Equal(t, sameDaySecond, got[0].ID)
	require.Equal(t, sameDayFirst, got[1].ID)
	require.Equal(t, early, got[2].ID)
}

func TestListByMonthBoundaries(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	txns := repository.NewTransactionRepo(db)
	periods := repository.NewPeriodRepo(db)

	first := insertTxn(t, ctx, txns, periods, "first of month", repository.TypeExpense, 100, date(2025, 3, 1))
	last := insertTxn(t, ctx, txns, periods, "last of month", repository.TypeExpense, 200, date(2025, 3, 31))
	insertTxn(t, ctx, txns, periods, "next month", repository.TypeExpense, 300, date(2025, 4, 1))

	march, err := txns.ListByMonth(ctx, 2025, 3)
	require.NoError(t, err)
	require.Len(t, march, 2)
	require.Equal(t, last, march[0].ID)
	require.Equal(t, first, march[1].ID)

	// period filter and date-range filter agree for an existing period
	period, err := periods.Resolve(ctx, 2025, 3)
	require.NoError(t, err)
	byPeriod, err := txns.ListByPeriod(ctx, period.ID)
	require.NoError(t, err)
	require.Equal(t, march, byPeriod)
}

func TestListRecentAcrossPeriods(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	txns := repository.NewTransactionRepo(db)
	periods := repository.NewPeriodRepo(db)

	insertTxn(t, ctx, txns, periods, "a", repository.TypeExpense, 100, date(2025, 2, 3))
	insertTxn(t, ctx, txns, periods, "b", repository.TypeExpense, 100, date(2025, 2, 20))
	cID := insertTxn(t, ctx, txns, periods, "c", repository.TypeIncome, 100, date(2025, 3, 1))
	dID := insertTxn(t, ctx, txns, periods, "d", repository.TypeIncome, 100, date(2025, 3, 1))
	eID := insertTxn(t, ctx, txns, periods, "e", repository.TypeExpense, 100, date(2025, 3, 9))

	recent, err := txns.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	require.Equal(t, []int64{eID, dID, cID}, []int64{recent[0].ID, recent[1].ID, recent[2].ID})

	// rows carry their period's year and month
	require.Equal(t, 2025, recent[0].Year)
	require.Equal(t, 3, recent[0].Month)
}

func TestSummaryTotals(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	txns := repository.NewTransactionRepo(db)
	periods := repository.NewPeriodRepo(db)

	empty, err := txns.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, repository.Summary{}, empty)

	insertTxn(t, ctx, txns, periods, "pay", repository.TypeIncome, 200000, date(2025, 3, 15))
	insertTxn(t, ctx, txns, periods, "rent", repository.TypeExpense, 80000, date(2025, 3, 1))
	insertTxn(t, ctx, txns, periods, "food", repository.TypeExpense, 12000, date(2025, 3, 8))

	got, err := txns.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, repository.Summary{IncomeCents: 200000, ExpenseCents: 92000, BalanceCents: 108000}, got)
}

func TestCategoryJoinAndNullOnDelete(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	txns := repository.NewTransactionRepo(db)
	periods := repository.NewPeriodRepo(db)
	cats := repository.NewCategoryRepo(db)

	red := "#ff0000"
	catID, err := cats.Insert(ctx, repository.Category{Name: "Food", Type: repository.TypeExpense, ColorCode: &red})
	require.NoError(t, err)

	period, err := periods.Resolve(ctx, 2025, 3)
	require.NoError(t, err)
	txID, err := txns.Insert(ctx, repository.Transaction{
		LedgerPeriodID: period.ID,
		Title:          "Lunch",
		AmountCents:    1500,
		Date:           date(2025, 3, 5),
		Type:           repository.TypeExpense,
		CategoryID:     &catID,
	})
	require.NoError(t, err)

	got, err := txns.Get(ctx, txID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.CategoryName)
	require.Equal(t, "Food", *got.CategoryName)

	affected, err := cats.Delete(ctx, catID)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// transaction survives with the reference nulled
	got, err = txns.Get(ctx, txID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Nil(t, got.CategoryID)
	require.Nil(t, got.CategoryName)
}

func TestMissingRowsAreNotErrors(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	txns := repository.NewTransactionRepo(db)

	got, err := txns.Get(ctx, 424242)
	require.NoError(t, err)
	require.Nil(t, got)

	affected, err := txns.Delete(ctx, 424242)
	require.NoError(t, err)
	require.Zero(t, affected)

	affected, err = txns.Update(ctx, repository.Transaction{
		ID: 424242, LedgerPeriodID: 1, Title: "ghost", AmountCents: 100,
		Date: date(2025, 1, 1), Type: repository.TypeExpense,
	})
	require.NoError(t, err)
	require.Zero(t, affected)
}

func TestForeignKeysEnforced(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := newTestDB(t)
	txns := repository.NewTransactionRepo(db)
	periods := repository.NewPeriodRepo(db)

	period, err := periods.Resolve(ctx, 2025, 3)
	require.NoError(t, err)

	bogus := int64(999)
	_, err = txns.Insert(ctx, repository.Transaction{
		LedgerPeriodID: period.ID,
		Title:          "dangling",
		AmountCents:    100,
		Date:           date(2025, 3, 5),
		Type:           repository.TypeExpense,
		CategoryID:     &bogus,
	})
	require.Error(t, err)
}
