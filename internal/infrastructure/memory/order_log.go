package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/order"
)

// OrderLog is the in-memory history ledger. Completed orders and failed
// attempts are kept in separate collections; the sequence slice preserves
// placement order for per-customer listings.
type OrderLog struct {
	mu       sync.RWMutex
	records  map[string]*domain.Record
	sequence []string
	failures []*domain.Failure
}

func NewOrderLog() *OrderLog {
	return &OrderLog{records: make(map[string]*domain.Record)}
}

func (l *OrderLog) Append(ctx context.Context, record *domain.Record) error {
	_ = ctx
	if record == nil || record.OrderID == "" {
		return fmt.Errorf("order log: order id is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.records[record.OrderID]; !exists {
		l.sequence = append(l.sequence, record.OrderID)
	}
	l.records[record.OrderID] = record.Clone()
	return nil
}

func (l *OrderLog) AppendFailure(ctx context.Context, failure *domain.Failure) error {
	_ = ctx
	if failure == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	clone := *failure
	l.failures = append(l.failures, &clone)
	return nil
}

func (l *OrderLog) Find(ctx context.Context, orderID string) (*domain.Record, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	record, ok := l.records[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record.Clone(), nil
}

func (l *OrderLog) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Record, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*domain.Record
	for _, id := range l.sequence {
		if record := l.records[id]; record != nil && record.CustomerID == customerID {
			out = append(out, record.Clone())
		}
	}
	return out, nil
}

func (l *OrderLog) MarkCancelled(ctx context.Context, orderID string) error {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	if record.Status == domain.StatusCancelled {
		return domain.ErrAlreadyCancelled
	}
	record.Status = domain.StatusCancelled
	return nil
}

func (l *OrderLog) Counts(ctx context.Context) (completed int, failed int, err error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.records), len(l.failures), nil
}
