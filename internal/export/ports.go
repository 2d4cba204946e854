// Package export defines the outbound interfaces for pushing ledger data to
// external destinations.
package export

import (
	"context"

	"github.com/igoorcb/finance-control/internal/core"
)

// TransactionWriter appends a transaction row to an external destination and
// returns an opaque reference to the written row.
type TransactionWriter interface {
	Append(ctx context.Context, tx core.Transaction) (string, error)
}
