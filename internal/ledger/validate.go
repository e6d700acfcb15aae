package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ledgerbook/internal/database/repository"
)

// Validation failures are rejected before any write; callers can branch on
// the sentinel wrapped into the returned error.
var (
	ErrYearOutOfRange = errors.New("year must be between 1900 and 3000")
	ErrInvalidMonth   = errors.New("month must be between 1 and 12")
	ErrInvalidLimit   = errors.New("limit must be between 1 and 100")
	ErrEmptyTitle     = errors.New("title is required")
	ErrEmptyName      = errors.New("name is required")
	ErrInvalidAmount  = errors.New("amount must be a positive number of cents")
	ErrInvalidType    = errors.New("type must be income or expense")
	ErrInvalidAccount = errors.New("unknown account type")
	ErrInvalidColor   = errors.New("color must be #RGB or #RRGGBB")
	ErrNotFound       = errors.New("not found")
)

const (
	minYear = 1900
	maxYear = 3000

	minRecentLimit = 1
	maxRecentLimit = 100
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: got %d", ErrYearOutOfRange, year)
	}
	return nil
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit < minRecentLimit || limit > maxRecentLimit {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}

func validateColor(color *string) error {
	if color == nil {
		return nil
	}
	if !hexColorRe.MatchString(*color) {
		return fmt.Errorf("%w: got %q", ErrInvalidColor, *color)
	}
	return nil
}

func validateCategory(c repository.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidType, c.Type)
	}
	return validateColor(c.ColorCode)
}

func validateAccount(a repository.Account) error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidAccount, a.Type)
	}
	return validateColor(a.Color)
}

func validateTransactionInput(in TransactionInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if in.AmountCents <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidAmount, in.AmountCents)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidType, in.Type)
	}
	if in.Date.IsZero() {
		return errors.New("date is required")
	}
	if err := validateYear(in.Date.Year()); err != nil {
		return err
	}
	return nil
}
