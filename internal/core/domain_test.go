package core

import (
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	if err := NewDate(2024, 1, 15).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		UserID:      1,
		Date:        NewDate(2024, 1, 15),
		Description: "groceries",
		Amount:      Money{Cents: 1234},
		Category:    CategoryExpense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{UserID: 0, Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1}},                             // no owner
		{UserID: 1, Date: Date{}, Amount: Money{Cents: 1}},                                          // zero date
		{UserID: 1, Date: NewDate(2024, 1, 1), Description: strings.Repeat("x", 201)},               // long description
	}
	for i, txn := range bads {
		if err := txn.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTodayTruncates(t *testing.T) {
	d := Today(time.Date(2024, 3, 10, 13, 45, 12, 0, time.UTC))
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 10 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Fatalf("time component not truncated: %v", d)
	}
}
