package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfirmedEvent is emitted once payment and shipment both succeed. The
// notification worker turns it into the order-confirmed message.
type ConfirmedEvent struct {
	OrderID           string
	CustomerID        string
	SKU               string
	Quantity          int
	TotalAmount       decimal.Decimal
	TransactionID     string
	TrackingNumber    string
	EstimatedDelivery string
	OccurredAt        time.Time
}

func (ConfirmedEvent) EventName() string { return "order.confirmed" }

func NewConfirmedEvent(r *Record) ConfirmedEvent {
	return ConfirmedEvent{
		OrderID:           r.OrderID,
		CustomerID:        r.CustomerID,
		SKU:               r.SKU,
		Quantity:          r.Quantity,
		TotalAmount:       r.TotalAmount,
		TransactionID:     r.TransactionID,
		TrackingNumber:    r.TrackingNumber,
		EstimatedDelivery: r.EstimatedDelivery,
		OccurredAt:        time.Now().UTC(),
	}
}

// ShippedEvent is emitted alongside ConfirmedEvent and carries the tracking
// details for the order-shipped message.
type ShippedEvent struct {
	OrderID           string
	CustomerID        string
	TrackingNumber    string
	EstimatedDelivery string
	OccurredAt        time.Time
}

func (ShippedEvent) EventName() string { return "order.shipped" }

func NewShippedEvent(r *Record) ShippedEvent {
	return ShippedEvent{
		OrderID:           r.OrderID,
		CustomerID:        r.CustomerID,
		TrackingNumber:    r.TrackingNumber,
		EstimatedDelivery: r.EstimatedDelivery,
		OccurredAt:        time.Now().UTC(),
	}
}

// PaymentFailedEvent is emitted when the charge is declined and the
// reservation has been rolled back.
type PaymentFailedEvent struct {
	OrderID    string
	CustomerID string
	Reason     string
	OccurredAt time.Time
}

func (PaymentFailedEvent) EventName() string { return "order.payment_failed" }

func NewPaymentFailedEvent(orderID, customerID, reason string) PaymentFailedEvent {
	return PaymentFailedEvent{
		OrderID:    orderID,
		CustomerID: customerID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

// CancelledEvent is emitted after a completed order is unwound.
type CancelledEvent struct {
	OrderID    string
	CustomerID string
	OccurredAt time.Time
}

func (CancelledEvent) EventName() string { return "order.cancelled" }

func NewCancelledEvent(orderID, customerID string) CancelledEvent {
	return CancelledEvent{
		OrderID:    orderID,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
	}
}
