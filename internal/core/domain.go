package core

import (
	"errors"
	"time"
)

// The only category values the system interprets. Anything else is stored
// verbatim and excluded from the aggregate sums.
const (
	CategoryIncome  = "income"
	CategoryExpense = "expense"
)

type (
	Date struct {
		time.Time
	}

	// Money is an amount in integer cents. Ledger amounts are signed; the
	// category carries the semantic meaning, not the sign.
	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Email        string
		PasswordHash string
	}

	Transaction struct {
		ID          int64
		UserID      int64
		Date        Date
		Description string
		Amount      Money
		Category    string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrMissingUser     = errors.New("transaction has no owner")
	ErrEmptyEmail      = errors.New("empty email")
	ErrEmptyPassword   = errors.New("empty password")
	ErrLongDescription = errors.New("description too long (max 200 characters)")
)

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates t to a calendar date.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.UserID <= 0 {
		return ErrMissingUser
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return ErrLongDescription
	}
	return nil
}
