package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("order: not found")
	ErrAlreadyCancelled = errors.New("order: already cancelled")
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Record is one successful placement in the history ledger. It captures
// everything the cancellation and status paths need to act on the order later.
type Record struct {
	OrderID           string
	CustomerID        string
	SKU               string
	Quantity          int
	TransactionID     string
	ShipmentID        string
	TrackingNumber    string
	TotalAmount       decimal.Decimal
	EstimatedDelivery string
	Status            Status
	PlacedAt          time.Time
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// Failure records a placement attempt that did not complete.
type Failure struct {
	OrderID    string
	CustomerID string
	Reason     string
	OccurredAt time.Time
}
