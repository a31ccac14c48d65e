package notification

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownTemplate = errors.New("notification: unknown template")

// TemplateName selects one of the predefined customer messages.
type TemplateName string

const (
	TemplateOrderConfirmed TemplateName = "order_confirmed"
	TemplateOrderShipped   TemplateName = "order_shipped"
	TemplateOrderDelivered TemplateName = "order_delivered"
	TemplatePaymentFailed  TemplateName = "payment_failed"
)

// TemplateData carries the per-order values the templates interpolate. Each
// template reads only the fields it needs.
type TemplateData struct {
	OrderID        string
	Amount         decimal.Decimal
	TransactionID  string
	TrackingNumber string
	ETA            string
	Reason         string
}

// Render produces the subject and body for a template. Customer-facing copy
// is Spanish; that is the audience this system serves.
func Render(name TemplateName, data TemplateData) (subject, body string, err error) {
	switch name {
	case TemplateOrderConfirmed:
		return fmt.Sprintf("Pedido Confirmado - #%s", data.OrderID),
			fmt.Sprintf("Tu pedido #%s ha sido confirmado. Total: $%s. ID de transacción: %s",
				data.OrderID, data.Amount.StringFixed(2), data.TransactionID),
			nil
	case TemplateOrderShipped:
		return fmt.Sprintf("Pedido Enviado - #%s", data.OrderID),
			fmt.Sprintf("Tu pedido #%s ha sido enviado. Número de seguimiento: %s. Entrega estimada: %s",
				data.OrderID, data.TrackingNumber, data.ETA),
			nil
	case TemplateOrderDelivered:
		return fmt.Sprintf("Pedido Entregado - #%s", data.OrderID),
			fmt.Sprintf("Tu pedido #%s ha sido entregado exitosamente. ¡Gracias por tu compra!", data.OrderID),
			nil
	case TemplatePaymentFailed:
		return fmt.Sprintf("Error en el Pago - #%s", data.OrderID),
			fmt.Sprintf("No se pudo procesar el pago para tu pedido #%s. Razón: %s", data.OrderID, data.Reason),
			nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
}
