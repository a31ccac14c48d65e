package order

import (
	"context"

	appnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/notification"
)

type IDGenerator interface {
	NewID() string
}

// Inventory is the stock collaborator as the facade sees it. Reserve reports
// false on short stock instead of an error; errors are reserved for faults.
type Inventory interface {
	Check(ctx context.Context, sku string, qty int) (bool, error)
	Reserve(ctx context.Context, sku string, qty int) (bool, error)
	Release(ctx context.Context, sku string, qty int) error
	Snapshot(ctx context.Context) (map[string]int, error)
}

// NotificationStats exposes the delivery tallies the system stats report.
type NotificationStats interface {
	Stats() appnotif.Stats
}
