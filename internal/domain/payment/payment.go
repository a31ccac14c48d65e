package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Details carries the card information supplied by the caller. The fields are
// explicit so the gateway can validate at the boundary instead of probing a
// loose key/value bag.
type Details struct {
	CardNumber string
	CVV        string
	Expiry     string // MM/YY
	Cardholder string
}

// Receipt is an immutable record of a charge or refund attempt. A declined
// charge is a Success=false receipt, not an error: errors are reserved for
// faults in the gateway itself.
type Receipt struct {
	Success       bool
	TransactionID string
	Message       string
	Amount        decimal.Decimal
	Timestamp     time.Time
}

// Gateway is the payment collaborator port.
type Gateway interface {
	Charge(ctx context.Context, details Details, amount decimal.Decimal) (Receipt, error)
	Refund(ctx context.Context, transactionID string, amount decimal.Decimal) (Receipt, error)
}
