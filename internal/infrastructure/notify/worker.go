package notify

import (
	"context"
	"fmt"

	appnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/application/notification"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/event"
	domnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/notification"
	domorder "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/order"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"
)

const workerComponent = "notification_worker"

// Worker turns order lifecycle events into customer notifications. It runs
// behind the bus, so a rendering or delivery failure surfaces in the logs but
// never touches the order that produced the event.
type Worker struct {
	subscriber    event.Subscriber
	notifications *appnotif.Service
	log           observability.Logger
}

func NewWorker(subscriber event.Subscriber, notifications *appnotif.Service, tel observability.Telemetry) *Worker {
	baseLog := observability.NopLogger()
	if tel != nil {
		baseLog = tel.Logger()
	}
	return &Worker{
		subscriber:    subscriber,
		notifications: notifications,
		log:           baseLog.With(observability.F("component", workerComponent)),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil || w.notifications == nil {
		return
	}
	w.subscriber.Subscribe(domorder.ConfirmedEvent{}.EventName(), w.handleConfirmed)
	w.subscriber.Subscribe(domorder.ShippedEvent{}.EventName(), w.handleShipped)
	w.subscriber.Subscribe(domorder.PaymentFailedEvent{}.EventName(), w.handlePaymentFailed)
	w.subscriber.Subscribe(domorder.CancelledEvent{}.EventName(), w.handleCancelled)
}

// Confirmations go to email and SMS regardless of preferences.
func (w *Worker) handleConfirmed(ctx context.Context, e event.Event) error {
	evt, ok := e.(domorder.ConfirmedEvent)
	if !ok {
		return nil
	}
	w.logHandled(ctx, e, evt.OrderID)
	return w.notifications.SendTemplate(ctx, evt.CustomerID, appnotif.TemplateOrderConfirmed,
		appnotif.TemplateData{
			OrderID:       evt.OrderID,
			Amount:        evt.TotalAmount,
			TransactionID: evt.TransactionID,
		},
		domnotif.ChannelEmail, domnotif.ChannelSMS,
	)
}

func (w *Worker) handleShipped(ctx context.Context, e event.Event) error {
	evt, ok := e.(domorder.ShippedEvent)
	if !ok {
		return nil
	}
	w.logHandled(ctx, e, evt.OrderID)
	return w.notifications.SendTemplate(ctx, evt.CustomerID, appnotif.TemplateOrderShipped,
		appnotif.TemplateData{
			OrderID:        evt.OrderID,
			TrackingNumber: evt.TrackingNumber,
			ETA:            evt.EstimatedDelivery,
		},
	)
}

func (w *Worker) handlePaymentFailed(ctx context.Context, e event.Event) error {
	evt, ok := e.(domorder.PaymentFailedEvent)
	if !ok {
		return nil
	}
	w.logHandled(ctx, e, evt.OrderID)
	return w.notifications.SendTemplate(ctx, evt.CustomerID, appnotif.TemplatePaymentFailed,
		appnotif.TemplateData{
			OrderID: evt.OrderID,
			Reason:  evt.Reason,
		},
	)
}

func (w *Worker) handleCancelled(ctx context.Context, e event.Event) error {
	evt, ok := e.(domorder.CancelledEvent)
	if !ok {
		return nil
	}
	w.logHandled(ctx, e, evt.OrderID)
	message := fmt.Sprintf(
		"Tu pedido %.8s... ha sido cancelado exitosamente. El reembolso será procesado en 3-5 días hábiles.",
		evt.OrderID,
	)
	return w.notifications.Notify(ctx, evt.CustomerID, message, domnotif.ChannelEmail)
}

func (w *Worker) logHandled(ctx context.Context, e event.Event, orderID string) {
	logctx.FromOr(ctx, w.log).Debug("notification_event_received",
		observability.F("event", e.EventName()),
		observability.F("order_id", orderID),
	)
}
