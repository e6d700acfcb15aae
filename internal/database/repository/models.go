package repository

import "time"

// TransactionType distinguishes money in from money out. Amounts are stored
// positive; the type carries the sign.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// AccountType classifies an account for display purposes.
type AccountType string

const (
	AccountChequing AccountType = "chequing"
	AccountSavings  AccountType = "savings"
	AccountCredit   AccountType = "credit"
	AccountCash     AccountType = "cash"
	AccountOther    AccountType = "other"
)

// Valid reports whether a is a known account type.
func (a AccountType) Valid() bool {
	switch a {
	case AccountChequing, AccountSavings, AccountCredit, AccountCash, AccountOther:
		return true
	}
	return false
}

// LedgerYear is the top-level grouping of periods. The year number is its
// primary key; there is no surrogate id.
type LedgerYear struct {
	Year      int
	CreatedAt time.Time
}

// LedgerPeriod is a (year, month) bucket that transactions belong to.
type LedgerPeriod struct {
	ID        int64
	Year      int
	Month     int
	CreatedAt time.Time
}

// TreeYear is one node of the ledger tree: a year and its periods sorted by
// month ascending. Periods is empty, not nil, for a year with no months.
type TreeYear struct {
	Year    int
	Periods []LedgerPeriod
}

// Category represents a category row.
type Category struct {
	ID        int64
	Name      string
	Type      TransactionType
	ColorCode *string
	Icon      *string
	IsSystem  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account represents an account row. BalanceCents is maintained by the
// ledger service as transactions referencing the account change.
type Account struct {
	ID           int64
	Name         string
	Type         AccountType
	Institution  *string
	BalanceCents int64
	Color        *string
	Icon         *string
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Transaction represents a transaction row. CategoryName, AccountName, Year
// and Month are denormalized display fields populated by the list queries;
// they are never written back.
type Transaction struct {
	ID             int64
	LedgerPeriodID int64
	Title          string
	AmountCents    int64
	Date           time.Time
	Type           TransactionType
	Notes          *string
	CategoryID     *int64
	AccountID      *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	CategoryName *string
	AccountName  *string
	Year         int
	Month        int
}

// Summary holds ledger-wide totals in cents.
type Summary struct {
	IncomeCents  int64
	ExpenseCents int64
	BalanceCents int64
}
