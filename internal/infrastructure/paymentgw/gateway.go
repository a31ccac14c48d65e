package paymentgw

import (
	"context"
	"time"

	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/payment"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const componentGateway = "payment_gateway"

// Receipt messages. Customer-facing, hence Spanish.
const (
	msgCardRequired      = "Número de tarjeta requerido"
	msgAmountNotPositive = "El monto debe ser mayor a cero"
	msgCardInvalid       = "Número de tarjeta inválido"
	msgDeclined          = "Pago rechazado - Fondos insuficientes o tarjeta bloqueada"
	msgRefundNeedsTx     = "ID de transacción requerido para reembolso"
	msgRefundOK          = "Reembolso procesado exitosamente"
)

// Gateway simulates a card processor. The first digit of the card number
// decides the outcome: 4 authorizes as Visa, 5 as MasterCard, everything
// else declines. Declines are receipts, not errors.
type Gateway struct {
	log observability.Logger
}

func NewGateway(tel observability.Telemetry) *Gateway {
	baseLog := observability.NopLogger()
	if tel != nil {
		baseLog = tel.Logger()
	}
	return &Gateway{log: baseLog.With(observability.F("component", componentGateway))}
}

// Charge authorizes amount against the card in details.
func (g *Gateway) Charge(ctx context.Context, details payment.Details, amount decimal.Decimal) (payment.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return payment.Receipt{}, err
	}
	logger := logctx.FromOr(ctx, g.log)

	if details.CardNumber == "" {
		return declined(msgCardRequired), nil
	}
	if !amount.IsPositive() {
		return declined(msgAmountNotPositive), nil
	}
	if len(details.CardNumber) < 15 {
		return declined(msgCardInvalid), nil
	}

	cardType, ok := cardTypeFor(details.CardNumber)
	if !ok {
		logger.Info("charge_declined",
			observability.F("card_last4", last4(details.CardNumber)),
			observability.F("amount", amount.StringFixed(2)),
		)
		return declined(msgDeclined), nil
	}

	receipt := payment.Receipt{
		Success:       true,
		TransactionID: uuid.NewString(),
		Message:       "Pago procesado exitosamente con " + cardType,
		Amount:        amount,
		Timestamp:     time.Now().UTC(),
	}
	logger.Info("charge_approved",
		observability.F("transaction_id", receipt.TransactionID),
		observability.F("card_type", cardType),
		observability.F("card_last4", last4(details.CardNumber)),
		observability.F("amount", amount.StringFixed(2)),
	)
	return receipt, nil
}

// Refund reverses a previous charge. Only the transaction id is checked; the
// simulation has no charge registry to validate against.
func (g *Gateway) Refund(ctx context.Context, transactionID string, amount decimal.Decimal) (payment.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return payment.Receipt{}, err
	}
	if transactionID == "" {
		return declined(msgRefundNeedsTx), nil
	}

	receipt := payment.Receipt{
		Success:       true,
		TransactionID: uuid.NewString(),
		Message:       msgRefundOK,
		Amount:        amount,
		Timestamp:     time.Now().UTC(),
	}
	logctx.FromOr(ctx, g.log).Info("refund_approved",
		observability.F("refund_id", receipt.TransactionID),
		observability.F("original_transaction_id", transactionID),
		observability.F("amount", amount.StringFixed(2)),
	)
	return receipt, nil
}

// ValidateCard runs the offline shape checks: card length 15 to 19, CVV 3 to
// 4 digits, expiry formatted MM/YY.
func (g *Gateway) ValidateCard(details payment.Details) bool {
	if len(details.CardNumber) < 15 || len(details.CardNumber) > 19 {
		return false
	}
	if len(details.CVV) < 3 || len(details.CVV) > 4 {
		return false
	}
	if len(details.Expiry) != 5 {
		return false
	}
	return true
}

func declined(message string) payment.Receipt {
	return payment.Receipt{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func cardTypeFor(cardNumber string) (string, bool) {
	switch cardNumber[0] {
	case '4':
		return "Visa", true
	case '5':
		return "MasterCard", true
	default:
		return "", false
	}
}

func last4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
