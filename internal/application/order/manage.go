package order

import (
	"context"
	"fmt"
	"math"
	"time"

	appnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/notification"
	domain "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/order"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/shipping"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CancelOrder unwinds a completed order: the shipment is cancelled, the
// charge refunded, the reserved stock returned, and the customer notified
// through the bus. Unknown orders report domain.ErrNotFound; a second cancel
// reports domain.ErrAlreadyCancelled.
func (f *Facade) CancelOrder(ctx context.Context, orderID, customerID string) (err error) {
	logger := logctx.FromOr(ctx, f.log).With(
		observability.F("operation", opCancelOrder),
		observability.F("order_id", orderID),
		observability.F("customer_id", customerID),
	)
	ctx = logctx.With(ctx, logger)

	ctx, span := f.tel.Tracer().Start(ctx, spanPrefix+"CancelOrder",
		attribute.String("operation", opCancelOrder),
		attribute.String("order.id", orderID),
	)
	start := time.Now()
	statusText := "OK"

	defer func() {
		lat := time.Since(start).Seconds()
		outcome := "success"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		if f.reqCounter != nil {
			f.reqCounter.Add(1,
				observability.L("operation", opCancelOrder),
				observability.L("outcome", outcome),
			)
		}
		if f.durHistogram != nil {
			f.durHistogram.Observe(lat, observability.L("operation", opCancelOrder))
		}

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("cancel_order_done", fields...)
	}()

	record, err := f.ledger.Find(ctx, orderID)
	if err != nil {
		statusText = "ORDER_NOT_FOUND"
		return err
	}
	if record.Status == domain.StatusCancelled {
		statusText = "ALREADY_CANCELLED"
		return domain.ErrAlreadyCancelled
	}

	if record.ShipmentID != "" {
		err = f.collaborate("shipping", func() error {
			return f.shipping.CancelShipment(ctx, record.ShipmentID)
		})
		if err != nil {
			statusText = "SHIPMENT_CANCEL_FAILED"
			return fmt.Errorf("order: cancel shipment: %w", err)
		}
	}

	if record.TransactionID != "" {
		err = f.collaborate("payments", func() error {
			receipt, rerr := f.payments.Refund(ctx, record.TransactionID, record.TotalAmount)
			if rerr != nil {
				return rerr
			}
			logger.Info("refund_processed",
				observability.F("refund_id", receipt.TransactionID),
				observability.F("amount", receipt.Amount.StringFixed(2)),
			)
			return nil
		})
		if err != nil {
			statusText = "REFUND_FAILED"
			return fmt.Errorf("order: refund: %w", err)
		}
	}

	err = f.collaborate("inventory", func() error {
		return f.inventory.Release(ctx, record.SKU, record.Quantity)
	})
	if err != nil {
		statusText = "STOCK_RESTORE_FAILED"
		return fmt.Errorf("order: restore stock: %w", err)
	}

	if err = f.ledger.MarkCancelled(ctx, orderID); err != nil {
		statusText = "LEDGER_UPDATE_FAILED"
		return fmt.Errorf("order: mark cancelled: %w", err)
	}

	f.publish(ctx, domain.NewCancelledEvent(orderID, customerID))
	return nil
}

// OrderStatus is a history record joined with live tracking data when the
// order has a tracking number.
type OrderStatus struct {
	Order    *domain.Record
	Shipping *shipping.TrackingInfo
}

func (f *Facade) OrderStatus(ctx context.Context, orderID string) (*OrderStatus, error) {
	record, err := f.ledger.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	status := &OrderStatus{Order: record}
	if record.TrackingNumber != "" {
		info, err := f.shipping.Track(ctx, record.TrackingNumber)
		if err != nil {
			logctx.FromOr(ctx, f.log).Warn("tracking_lookup_failed",
				observability.F("order_id", orderID),
				observability.F("tracking_number", record.TrackingNumber),
				observability.F("error", err.Error()),
			)
		} else {
			status.Shipping = &info
		}
	}
	return status, nil
}

// History returns one customer's completed orders in placement order.
func (f *Facade) History(ctx context.Context, customerID string) ([]*domain.Record, error) {
	return f.ledger.ListByCustomer(ctx, customerID)
}

// SystemStats aggregates the whole system for the stats report.
type SystemStats struct {
	TotalSuccessfulOrders int
	TotalFailedOrders     int
	SuccessRatePercentage float64
	InventoryStatus       map[string]int
	NotificationStats     appnotif.Stats
	AvailableCarriers     map[shipping.Class]shipping.Carrier
}

func (f *Facade) Stats(ctx context.Context) (*SystemStats, error) {
	completed, failed, err := f.ledger.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("order: stats: %w", err)
	}

	snapshot, err := f.inventory.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("order: stats: %w", err)
	}

	rate := 0.0
	if completed+failed > 0 {
		rate = math.Round(float64(completed)/float64(completed+failed)*100*100) / 100
	}

	stats := &SystemStats{
		TotalSuccessfulOrders: completed,
		TotalFailedOrders:     failed,
		SuccessRatePercentage: rate,
		InventoryStatus:       snapshot,
		AvailableCarriers:     f.shipping.Carriers(),
	}
	if f.notifStats != nil {
		stats.NotificationStats = f.notifStats.Stats()
	}
	return stats, nil
}
