// Package services orchestrates ledger writes across storage and AMQP.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// SyncPublisher publishes export messages for newly created transactions.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
}

// LedgerService saves transactions and enqueues them for sheet export.
// It satisfies ledger.TransactionWriter so handlers don't know about AMQP.
type LedgerService struct {
	store     ledger.TransactionWriter
	publisher SyncPublisher
}

var _ ledger.TransactionWriter = (*LedgerService)(nil)

func NewLedgerService(store ledger.TransactionWriter, publisher SyncPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// CreateTransaction saves the transaction locally, then publishes the sync
// message best effort. A broker outage never fails the request; the worker's
// reconcile pass picks up rows whose message was lost.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No sync publisher configured, skipping sync message", "id", id)
		return id, nil
	}
	if err := s.publisher.PublishTransactionSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}

	return id, nil
}
