package memory

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func TestUserLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "a@example.com", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateUser(ctx, "a@example.com", "other"); !errors.Is(err, ledger.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	u, err := s.GetUserByID(ctx, id)
	if err != nil || u.Email != "a@example.com" {
		t.Fatalf("get by id: %v %+v", err, u)
	}
	if _, err := s.GetUserByEmail(ctx, "b@example.com"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTransactionsPerUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, _ := s.CreateUser(ctx, "a@example.com", "h")
	b, _ := s.CreateUser(ctx, "b@example.com", "h")

	for i := 0; i < 3; i++ {
		if _, err := s.CreateTransaction(ctx, core.Transaction{
			UserID: a, Date: core.NewDate(2024, 1, 1+i), Amount: core.Money{Cents: int64(100 * (i + 1))},
			Category: core.CategoryExpense,
		}); err != nil {
			t.Fatalf("create txn: %v", err)
		}
	}

	mine, err := s.ListTransactionsByUser(ctx, a)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("expected 3, got %d", len(mine))
	}
	if mine[0].Amount.Cents != 100 || mine[2].Amount.Cents != 300 {
		t.Fatalf("insertion order broken: %+v", mine)
	}

	theirs, err := s.ListTransactionsByUser(ctx, b)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(theirs) != 0 {
		t.Fatalf("ledger leaked across users: %+v", theirs)
	}
}
