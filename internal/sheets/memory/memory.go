// Package memory is an in-memory sheet recorder used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	rows []core.Transaction
}

var _ sheets.TransactionAppender = (*Sheet)(nil)

func New() *Sheet {
	return &Sheet{}
}

func (s *Sheet) AppendTransaction(ctx context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, t)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Sheet) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, len(s.rows))
	copy(out, s.rows)
	return out
}
