package sheets

import (
	"context"

	"fintrack/internal/core"
)

// TransactionAppender is the export port: it pushes one ledger row to the
// destination sheet and returns a reference to the written row.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
}
