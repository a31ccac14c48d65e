package order

import (
	"context"
	"fmt"
	"time"

	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/event"
	domain "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/order"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/payment"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/shipping"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	facadeService  = "order-facade"
	opPlaceOrder   = "order.place"
	opCancelOrder  = "order.cancel"
	spanPrefix     = "Facade."
	publishTimeout = 300 * time.Millisecond
)

// Failure reasons surfaced in OrderResult. Customer-facing, hence Spanish.
const (
	ReasonInsufficientStock = "Stock insuficiente"
	ReasonReserveFailed     = "No se pudo reservar el stock"
	reasonPaymentPrefix     = "Error en el pago: "
	reasonShippingPrefix    = "Error en el envío: "
	reasonInternalPrefix    = "Error interno del sistema"
)

type PlaceOrderInput struct {
	CustomerID   string
	SKU          string
	Quantity     int
	UnitPrice    decimal.Decimal
	Payment      payment.Details
	Address      *shipping.Address
	ShippingType shipping.Class
}

// OrderResult is the sole value PlaceOrder returns. Failed placements carry a
// human-readable Reason; a shipping failure still reports the transaction id
// the charge produced.
type OrderResult struct {
	Success           bool
	OrderID           string
	Reason            string
	TransactionID     string
	ShipmentID        string
	TrackingNumber    string
	TotalAmount       decimal.Decimal
	EstimatedDelivery string
}

// Facade is the single entry point for placing and managing orders. It
// sequences the inventory, payment, shipping and notification subsystems and
// folds their outcomes into one result.
type Facade struct {
	inventory  Inventory
	payments   payment.Gateway
	shipping   shipping.Service
	notifStats NotificationStats
	ledger     domain.Log
	publisher  event.Publisher
	ids        IDGenerator
	tel        observability.Telemetry

	log          observability.Logger
	reqCounter   observability.Counter   // facade_requests_total{operation,outcome}
	durHistogram observability.Histogram // facade_request_duration_seconds{operation}
	colCounter   observability.Counter   // collaborator_requests_total{peer,outcome}
	colHistogram observability.Histogram // collaborator_request_duration_seconds{peer}
	pubFailures  observability.Counter   // event_publish_failed_total{event}
}

func NewFacade(
	inventory Inventory,
	payments payment.Gateway,
	shippingSvc shipping.Service,
	notifStats NotificationStats,
	ledger domain.Log,
	publisher event.Publisher,
	ids IDGenerator,
	tel observability.Telemetry,
) *Facade {
	if tel == nil {
		tel = observability.NopTelemetry()
	}
	metricsProvider := tel.Metrics()

	return &Facade{
		inventory:    inventory,
		payments:     payments,
		shipping:     shippingSvc,
		notifStats:   notifStats,
		ledger:       ledger,
		publisher:    publisher,
		ids:          ids,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", facadeService)),
		reqCounter:   metricsProvider.Counter(observability.MFacadeRequests),
		durHistogram: metricsProvider.Histogram(observability.MFacadeDuration),
		colCounter:   metricsProvider.Counter(observability.MCollaboratorRequests),
		colHistogram: metricsProvider.Histogram(observability.MCollaboratorDuration),
		pubFailures:  metricsProvider.Counter(observability.MEventPublishFailures),
	}
}

// PlaceOrder runs the four-step placement sequence: reserve stock, charge the
// card, create the shipment, notify the customer. Stock release is the single
// compensating action and runs at most once per call. Every outcome comes
// back as an OrderResult, never as an error; an unexpected panic downstream
// is caught here, the reservation is released best effort, and the result
// reports a generic internal failure.
//
// There is no idempotency key and no retry: calling PlaceOrder twice with
// identical input places two independent orders.
func (f *Facade) PlaceOrder(ctx context.Context, input PlaceOrderInput) (result OrderResult) {
	orderID := f.ids.NewID()
	logger := logctx.FromOr(ctx, f.log).With(
		observability.F("operation", opPlaceOrder),
		observability.F("order_id", orderID),
		observability.F("customer_id", input.CustomerID),
		observability.F("sku", input.SKU),
		observability.F("qty", input.Quantity),
	)
	ctx = logctx.With(ctx, logger)

	ctx, span := f.tel.Tracer().Start(ctx, spanPrefix+"PlaceOrder",
		attribute.String("operation", opPlaceOrder),
		attribute.String("order.id", orderID),
		attribute.String("order.customer_id", input.CustomerID),
		attribute.String("order.sku", input.SKU),
		attribute.Int("order.qty", input.Quantity),
	)
	start := time.Now()
	statusText := "OK"
	reserved := false

	defer func() {
		if r := recover(); r != nil {
			statusText = "INTERNAL_PANIC"
			if reserved {
				f.releaseQuietly(ctx, input.SKU, input.Quantity)
			}
			result = OrderResult{
				Success: false,
				OrderID: orderID,
				Reason:  fmt.Sprintf("%s: %v", reasonInternalPrefix, r),
			}
			f.recordFailure(ctx, orderID, input.CustomerID, result.Reason)
		}

		lat := time.Since(start).Seconds()
		outcome := "success"
		if !result.Success {
			outcome = "error"
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		if f.reqCounter != nil {
			f.reqCounter.Add(1,
				observability.L("operation", opPlaceOrder),
				observability.L("outcome", outcome),
			)
		}
		if f.durHistogram != nil {
			f.durHistogram.Observe(lat, observability.L("operation", opPlaceOrder))
		}

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if result.Reason != "" {
			fields = append(fields, observability.F("reason", result.Reason))
		}
		logger.Info("place_order_done", fields...)
	}()

	// Step 1: availability check and reservation.
	available, err := f.checkStock(ctx, input.SKU, input.Quantity)
	if err != nil {
		statusText = "INVENTORY_FAILED"
		return f.failInternal(ctx, orderID, input, reserved, err)
	}
	if !available {
		statusText = "INSUFFICIENT_STOCK"
		result = OrderResult{Success: false, OrderID: orderID, Reason: ReasonInsufficientStock}
		f.recordFailure(ctx, orderID, input.CustomerID, result.Reason)
		return result
	}

	ok, err := f.reserveStock(ctx, input.SKU, input.Quantity)
	if err != nil {
		statusText = "INVENTORY_FAILED"
		return f.failInternal(ctx, orderID, input, reserved, err)
	}
	if !ok {
		// Lost the race between check and reserve.
		statusText = "RESERVE_FAILED"
		result = OrderResult{Success: false, OrderID: orderID, Reason: ReasonReserveFailed}
		f.recordFailure(ctx, orderID, input.CustomerID, result.Reason)
		return result
	}
	reserved = true

	// Step 2: total including shipping, then the charge.
	items := []shipping.Item{{SKU: input.SKU, Qty: input.Quantity, Weight: 1}}
	shippingCost := f.shipping.Cost(items, input.ShippingType)
	total := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Add(shippingCost)
	span.SetAttributes(attribute.String("order.total", total.StringFixed(2)))

	receipt, err := f.charge(ctx, input.Payment, total)
	if err != nil {
		statusText = "PAYMENT_FAILED"
		return f.failInternal(ctx, orderID, input, reserved, err)
	}
	if !receipt.Success {
		statusText = "PAYMENT_DECLINED"
		f.release(ctx, input.SKU, input.Quantity)
		result = OrderResult{
			Success: false,
			OrderID: orderID,
			Reason:  reasonPaymentPrefix + receipt.Message,
		}
		f.recordFailure(ctx, orderID, input.CustomerID, result.Reason)
		f.publish(ctx, domain.NewPaymentFailedEvent(orderID, input.CustomerID, receipt.Message))
		return result
	}

	// Step 3: the shipment. The reservation is released on failure but the
	// charge is not reversed here; the transaction id travels back instead.
	shipment, err := f.createShipment(ctx, input.CustomerID, items, input.Address, input.ShippingType)
	if err != nil {
		statusText = "SHIPPING_FAILED"
		res := f.failInternal(ctx, orderID, input, reserved, err)
		res.TransactionID = receipt.TransactionID
		return res
	}
	if !shipment.Success {
		statusText = "SHIPPING_FAILED"
		f.release(ctx, input.SKU, input.Quantity)
		result = OrderResult{
			Success:       false,
			OrderID:       orderID,
			Reason:        reasonShippingPrefix + shipment.Message,
			TransactionID: receipt.TransactionID,
		}
		f.recordFailure(ctx, orderID, input.CustomerID, result.Reason)
		return result
	}

	// Step 4: ledger entry, then notifications through the bus.
	record := &domain.Record{
		OrderID:           orderID,
		CustomerID:        input.CustomerID,
		SKU:               input.SKU,
		Quantity:          input.Quantity,
		TransactionID:     receipt.TransactionID,
		ShipmentID:        shipment.ShipmentID,
		TrackingNumber:    shipment.TrackingNumber,
		TotalAmount:       total,
		EstimatedDelivery: shipment.EstimatedDelivery,
		Status:            domain.StatusCompleted,
		PlacedAt:          time.Now().UTC(),
	}
	if err := f.ledger.Append(ctx, record); err != nil {
		// The charge and shipment already happened; the order stands even if
		// the bookkeeping write fails.
		logger.Error("order_ledger_append_failed", observability.F("error", err.Error()))
	}

	f.publish(ctx, domain.NewConfirmedEvent(record))
	f.publish(ctx, domain.NewShippedEvent(record))

	span.AddEvent("order.placed", trace.WithAttributes(
		attribute.String("order.transaction_id", receipt.TransactionID),
		attribute.String("order.tracking_number", shipment.TrackingNumber),
	))

	result = OrderResult{
		Success:           true,
		OrderID:           orderID,
		TransactionID:     receipt.TransactionID,
		ShipmentID:        shipment.ShipmentID,
		TrackingNumber:    shipment.TrackingNumber,
		TotalAmount:       total,
		EstimatedDelivery: shipment.EstimatedDelivery,
	}
	return result
}

// failInternal is the shared path for collaborator faults: release the
// reservation if one exists, record the failure, and map the fault to the
// generic internal reason.
func (f *Facade) failInternal(ctx context.Context, orderID string, input PlaceOrderInput, reserved bool, err error) OrderResult {
	if reserved {
		f.release(ctx, input.SKU, input.Quantity)
	}
	result := OrderResult{
		Success: false,
		OrderID: orderID,
		Reason:  fmt.Sprintf("%s: %v", reasonInternalPrefix, err),
	}
	f.recordFailure(ctx, orderID, input.CustomerID, result.Reason)
	return result
}

func (f *Facade) checkStock(ctx context.Context, sku string, qty int) (available bool, err error) {
	err = f.collaborate("inventory", func() error {
		var cerr error
		available, cerr = f.inventory.Check(ctx, sku, qty)
		return cerr
	})
	return available, err
}

func (f *Facade) reserveStock(ctx context.Context, sku string, qty int) (ok bool, err error) {
	err = f.collaborate("inventory", func() error {
		var cerr error
		ok, cerr = f.inventory.Reserve(ctx, sku, qty)
		return cerr
	})
	return ok, err
}

func (f *Facade) charge(ctx context.Context, details payment.Details, amount decimal.Decimal) (receipt payment.Receipt, err error) {
	err = f.collaborate("payments", func() error {
		var cerr error
		receipt, cerr = f.payments.Charge(ctx, details, amount)
		return cerr
	})
	return receipt, err
}

func (f *Facade) createShipment(ctx context.Context, customerID string, items []shipping.Item, address *shipping.Address, class shipping.Class) (shipment shipping.Shipment, err error) {
	err = f.collaborate("shipping", func() error {
		var cerr error
		shipment, cerr = f.shipping.CreateShipment(ctx, customerID, items, address, class)
		return cerr
	})
	return shipment, err
}

// release is the compensating action. Its own failure is logged and swallowed:
// there is nothing further to unwind.
func (f *Facade) release(ctx context.Context, sku string, qty int) {
	err := f.collaborate("inventory", func() error {
		return f.inventory.Release(ctx, sku, qty)
	})
	if err != nil {
		logctx.FromOr(ctx, f.log).Error("stock_release_failed",
			observability.F("sku", sku),
			observability.F("qty", qty),
			observability.F("error", err.Error()),
		)
	}
}

// releaseQuietly guards the release on the panic path; a second panic from
// the inventory collaborator must not escape the recovery handler.
func (f *Facade) releaseQuietly(ctx context.Context, sku string, qty int) {
	defer func() { _ = recover() }()
	f.release(ctx, sku, qty)
}

func (f *Facade) recordFailure(ctx context.Context, orderID, customerID, reason string) {
	failure := &domain.Failure{
		OrderID:    orderID,
		CustomerID: customerID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	if err := f.ledger.AppendFailure(ctx, failure); err != nil {
		logctx.FromOr(ctx, f.log).Error("order_ledger_append_failed",
			observability.F("order_id", orderID),
			observability.F("error", err.Error()),
		)
	}
}

// publish hands a lifecycle event to the bus, best effort. A full queue or a
// stopped bus degrades to a log line and a counter tick; it never fails the
// order.
func (f *Facade) publish(ctx context.Context, e event.Event) {
	if f.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := f.publisher.Publish(pubCtx, e); err != nil {
		if f.pubFailures != nil {
			f.pubFailures.Add(1, observability.L("event", e.EventName()))
		}
		logctx.FromOr(ctx, f.log).Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err.Error()),
		)
	}
}

// collaborate times one collaborator call and feeds the RED metrics for it.
func (f *Facade) collaborate(peer string, fn func() error) error {
	start := time.Now()
	err := fn()

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if f.colCounter != nil {
		f.colCounter.Add(1,
			observability.L("peer", peer),
			observability.L("outcome", outcome),
		)
	}
	if f.colHistogram != nil {
		f.colHistogram.Observe(time.Since(start).Seconds(), observability.L("peer", peer))
	}
	return err
}
