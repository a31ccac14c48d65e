package order

import "context"

// Log is the order history port. Successful placements and failed attempts are
// kept apart: status and cancellation only ever operate on completed orders.
type Log interface {
	Append(ctx context.Context, record *Record) error
	AppendFailure(ctx context.Context, failure *Failure) error
	Find(ctx context.Context, orderID string) (*Record, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Record, error)
	MarkCancelled(ctx context.Context, orderID string) error
	Counts(ctx context.Context) (completed int, failed int, err error)
}
