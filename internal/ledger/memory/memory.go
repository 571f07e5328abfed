// Package memory provides an in-memory ledger backend for development and tests.
package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type Store struct {
	mu           sync.Mutex
	nextUserID   int64
	nextTxnID    int64
	usersByEmail map[string]core.User
	usersByID    map[int64]core.User
	transactions []core.Transaction
}

var (
	_ ledger.UserStore         = (*Store)(nil)
	_ ledger.TransactionWriter = (*Store)(nil)
	_ ledger.TransactionLister = (*Store)(nil)
)

func New() *Store {
	return &Store{
		nextUserID:   1,
		nextTxnID:    1,
		usersByEmail: make(map[string]core.User),
		usersByID:    make(map[int64]core.User),
	}
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return 0, ledger.ErrDuplicateEmail
	}

	u := core.User{ID: s.nextUserID, Email: email, PasswordHash: passwordHash}
	s.nextUserID++
	s.usersByEmail[email] = u
	s.usersByID[u.ID] = u
	return u.ID, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usersByEmail[email]
	if !ok {
		return core.User{}, ledger.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usersByID[id]
	if !ok {
		return core.User{}, ledger.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextTxnID
	s.nextTxnID++
	s.transactions = append(s.transactions, t)
	return t.ID, nil
}

func (s *Store) ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}
