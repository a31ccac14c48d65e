package notify

import (
	"context"

	domnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/notification"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"
)

// LogSender writes notifications to the structured log, standing in for the
// real email, SMS and push providers.
type LogSender struct {
	log observability.Logger
}

func NewLogSender(logger observability.Logger) *LogSender {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &LogSender{log: logger.With(observability.F("component", "notification_sender"))}
}

func (s *LogSender) Send(ctx context.Context, msg domnotif.Message) error {
	logctx.FromOr(ctx, s.log).Info("notification_delivered",
		observability.F("channel", string(msg.Channel)),
		observability.F("customer_id", msg.CustomerID),
		observability.F("body", msg.Body),
	)
	return nil
}
