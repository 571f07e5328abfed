// Package worker exports ledger rows from sqlite to the configured sheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/sheets"
)

// Store is the slice of the repository the worker needs.
type Store interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker pushes transactions to the sheet as messages arrive, and
// reconciles rows whose message was lost.
type SyncWorker struct {
	store     Store
	sheet     sheets.TransactionAppender
	batchSize int
}

func NewSyncWorker(store Store, sheet sheets.TransactionAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	t, err := w.store.GetTransaction(ctx, msg.ID)
	if errors.Is(err, ledger.ErrNotFound) {
		// Row is gone; dropping the message is the only sensible outcome.
		slog.WarnContext(ctx, "Sync message for unknown transaction", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.export(ctx, t)
}

// ReconcilePending exports a batch of rows still marked pending. It runs at
// startup and on a timer, covering messages lost to broker outages.
func (w *SyncWorker) ReconcilePending(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Reconciling pending transactions", "count", len(pending))

	var failed int
	for _, t := range pending {
		if err := w.export(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction", "id", t.ID, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("reconcile: %d of %d exports failed", failed, len(pending))
	}
	return nil
}

// RunReconcileLoop calls ReconcilePending on a timer until ctx is done.
func (w *SyncWorker) RunReconcileLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ReconcilePending(ctx); err != nil {
				slog.ErrorContext(ctx, "Reconcile pass failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) export(ctx context.Context, t core.Transaction) error {
	ref, err := w.sheet.AppendTransaction(ctx, t)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append transaction to sheet: %w", err)
	}

	if err := w.store.MarkSynced(ctx, t.ID); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced to sheet", "id", t.ID, "ref", ref)
	return nil
}
