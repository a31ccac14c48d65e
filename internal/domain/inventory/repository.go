package inventory

import (
	"context"
)

// Store is the stock ledger port. Reserve and Release are compound operations
// so that check-and-decrement happens atomically inside the implementation.
type Store interface {
	// Available reports the stock on hand for a SKU; unknown SKUs count as zero.
	Available(ctx context.Context, sku string) (int, error)

	// Reserve atomically checks availability and decrements the ledger.
	// Unknown SKUs yield ErrNotFound, short stock ErrInsufficientStock.
	Reserve(ctx context.Context, sku string, quantity int) error

	// Release returns previously reserved units to the ledger. Releasing an
	// unknown SKU is a caller bug and yields ErrNotFound instead of silently
	// creating an entry.
	Release(ctx context.Context, sku string, quantity int) error

	// SetStock seeds or overwrites the ledger entry for a SKU.
	SetStock(ctx context.Context, sku string, quantity int) error

	// Snapshot copies the full ledger for reporting.
	Snapshot(ctx context.Context) (map[string]int, error)
}
