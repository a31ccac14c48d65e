package paymentgw

import (
	"context"
	"testing"

	"github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayCharge(t *testing.T) {
	tests := map[string]struct {
		details     payment.Details
		amount      decimal.Decimal
		wantSuccess bool
		wantMessage string
	}{
		"visa approves": {
			details:     payment.Details{CardNumber: "4111111111111111", CVV: "123", Expiry: "12/27"},
			amount:      decimal.NewFromFloat(299.99),
			wantSuccess: true,
			wantMessage: "Pago procesado exitosamente con Visa",
		},
		"mastercard approves": {
			details:     payment.Details{CardNumber: "5555555555554444", CVV: "456", Expiry: "08/26"},
			amount:      decimal.NewFromFloat(899.99),
			wantSuccess: true,
			wantMessage: "Pago procesado exitosamente con MasterCard",
		},
		"amex declines": {
			details:     payment.Details{CardNumber: "3782822463100005", CVV: "1234", Expiry: "12/25"},
			amount:      decimal.NewFromFloat(299.99),
			wantMessage: "Pago rechazado - Fondos insuficientes o tarjeta bloqueada",
		},
		"missing card number": {
			details:     payment.Details{},
			amount:      decimal.NewFromFloat(10),
			wantMessage: "Número de tarjeta requerido",
		},
		"zero amount": {
			details:     payment.Details{CardNumber: "4111111111111111"},
			amount:      decimal.Zero,
			wantMessage: "El monto debe ser mayor a cero",
		},
		"negative amount": {
			details:     payment.Details{CardNumber: "4111111111111111"},
			amount:      decimal.NewFromInt(-5),
			wantMessage: "El monto debe ser mayor a cero",
		},
		"card number too short": {
			details:     payment.Details{CardNumber: "4111"},
			amount:      decimal.NewFromFloat(10),
			wantMessage: "Número de tarjeta inválido",
		},
	}

	gw := NewGateway(nil)
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			receipt, err := gw.Charge(context.Background(), tt.details, tt.amount)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSuccess, receipt.Success)
			assert.Equal(t, tt.wantMessage, receipt.Message)
			if tt.wantSuccess {
				assert.NotEmpty(t, receipt.TransactionID)
				assert.True(t, receipt.Amount.Equal(tt.amount))
			} else {
				assert.Empty(t, receipt.TransactionID)
			}
		})
	}
}

func TestGatewayChargeHonorsContext(t *testing.T) {
	gw := NewGateway(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Charge(ctx, payment.Details{CardNumber: "4111111111111111"}, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGatewayChargeProducesUniqueTransactionIDs(t *testing.T) {
	gw := NewGateway(nil)
	details := payment.Details{CardNumber: "4111111111111111", CVV: "123", Expiry: "12/27"}

	first, err := gw.Charge(context.Background(), details, decimal.NewFromInt(10))
	require.NoError(t, err)
	second, err := gw.Charge(context.Background(), details, decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestGatewayRefund(t *testing.T) {
	gw := NewGateway(nil)
	ctx := context.Background()

	receipt, err := gw.Refund(ctx, "tx-123", decimal.NewFromFloat(309.99))
	require.NoError(t, err)
	assert.True(t, receipt.Success)
	assert.Equal(t, "Reembolso procesado exitosamente", receipt.Message)
	assert.NotEmpty(t, receipt.TransactionID)
	assert.Equal(t, "309.99", receipt.Amount.StringFixed(2))

	missing, err := gw.Refund(ctx, "", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.False(t, missing.Success)
	assert.Equal(t, "ID de transacción requerido para reembolso", missing.Message)
}

func TestGatewayValidateCard(t *testing.T) {
	tests := map[string]struct {
		details payment.Details
		want    bool
	}{
		"valid visa": {
			details: payment.Details{CardNumber: "4111111111111111", CVV: "123", Expiry: "12/27"},
			want:    true,
		},
		"valid amex length": {
			details: payment.Details{CardNumber: "378282246310005", CVV: "1234", Expiry: "12/25"},
			want:    true,
		},
		"card too short": {
			details: payment.Details{CardNumber: "41111111", CVV: "123", Expiry: "12/27"},
		},
		"card too long": {
			details: payment.Details{CardNumber: "41111111111111111111", CVV: "123", Expiry: "12/27"},
		},
		"cvv too short": {
			details: payment.Details{CardNumber: "4111111111111111", CVV: "12", Expiry: "12/27"},
		},
		"cvv too long": {
			details: payment.Details{CardNumber: "4111111111111111", CVV: "12345", Expiry: "12/27"},
		},
		"malformed expiry": {
			details: payment.Details{CardNumber: "4111111111111111", CVV: "123", Expiry: "12/2027"},
		},
	}

	gw := NewGateway(nil)
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, gw.ValidateCard(tt.details))
		})
	}
}
