package ledger

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// Shared sentinel errors for every backend.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Ports for the ledger and identity backends.
type (
	TransactionWriter interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (id int64, err error)
	}

	TransactionLister interface {
		// ListTransactionsByUser returns a user's full ledger in insertion order.
		ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
	}

	UserStore interface {
		// CreateUser fails with ErrDuplicateEmail when the email exists.
		CreateUser(ctx context.Context, email, passwordHash string) (id int64, err error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
		GetUserByID(ctx context.Context, id int64) (core.User, error)
	}
)
