package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domnotif "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/notification"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"
)

const notificationService = "notification-service"

// Service delivers customer messages through a pluggable sender and keeps an
// in-memory record of everything sent. Per-customer channel preferences apply
// when the caller does not name channels explicitly; the default is email.
type Service struct {
	sender domnotif.Sender
	log    observability.Logger
	sent   observability.Counter

	mu          sync.RWMutex
	history     []domnotif.Message
	preferences map[string][]domnotif.Channel
}

func NewService(sender domnotif.Sender, tel observability.Telemetry) *Service {
	baseLog := observability.NopLogger()
	metricsProvider := observability.NopMetrics()
	if tel != nil {
		baseLog = tel.Logger()
		metricsProvider = tel.Metrics()
	}
	return &Service{
		sender:      sender,
		log:         baseLog.With(observability.F("service", notificationService)),
		sent:        metricsProvider.Counter(observability.MNotificationsSent),
		preferences: make(map[string][]domnotif.Channel),
	}
}

// Notify sends one message over one channel and records it in the history.
// Failed sends are not recorded.
func (s *Service) Notify(ctx context.Context, customerID, message string, channel domnotif.Channel) error {
	if !channel.Valid() {
		return fmt.Errorf("%w: %q", domnotif.ErrUnknownChannel, channel)
	}

	logger := logctx.FromOr(ctx, s.log)
	msg := domnotif.Message{
		CustomerID: customerID,
		Body:       message,
		Channel:    channel,
		SentAt:     time.Now().UTC(),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Warn("notification_send_failed",
			observability.F("customer_id", customerID),
			observability.F("channel", string(channel)),
			observability.F("error", err.Error()),
		)
		return fmt.Errorf("notification: send: %w", err)
	}

	s.mu.Lock()
	s.history = append(s.history, msg)
	s.mu.Unlock()

	if s.sent != nil {
		s.sent.Add(1, observability.L("channel", string(channel)))
	}
	logger.Info("notification_sent",
		observability.F("customer_id", customerID),
		observability.F("channel", string(channel)),
	)
	return nil
}

// SendTemplate renders a predefined template and delivers it. When no
// channels are given the customer's preferences decide; delivery continues
// through the remaining channels after a failure and the errors come back
// joined.
func (s *Service) SendTemplate(ctx context.Context, customerID string, name TemplateName, data TemplateData, channels ...domnotif.Channel) error {
	subject, body, err := Render(name, data)
	if err != nil {
		return err
	}

	if len(channels) == 0 {
		channels = s.PreferencesFor(customerID)
	}

	message := subject + "\n\n" + body
	var errs []error
	for _, channel := range channels {
		if err := s.Notify(ctx, customerID, message, channel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetPreferences replaces a customer's preferred channels. Passing none
// restores the email default.
func (s *Service) SetPreferences(customerID string, channels ...domnotif.Channel) error {
	for _, channel := range channels {
		if !channel.Valid() {
			return fmt.Errorf("%w: %q", domnotif.ErrUnknownChannel, channel)
		}
	}

	s.mu.Lock()
	if len(channels) == 0 {
		delete(s.preferences, customerID)
	} else {
		s.preferences[customerID] = append([]domnotif.Channel(nil), channels...)
	}
	s.mu.Unlock()

	s.log.Info("notification_preferences_set",
		observability.F("customer_id", customerID),
		observability.F("channels", channelNames(channels)),
	)
	return nil
}

// PreferencesFor returns the customer's preferred channels, defaulting to
// email when none were set.
func (s *Service) PreferencesFor(customerID string) []domnotif.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs, ok := s.preferences[customerID]
	if !ok {
		return []domnotif.Channel{domnotif.ChannelEmail}
	}
	return append([]domnotif.Channel(nil), prefs...)
}

// History returns every message sent to one customer, oldest first.
func (s *Service) History(customerID string) []domnotif.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domnotif.Message
	for _, msg := range s.history {
		if msg.CustomerID == customerID {
			out = append(out, msg)
		}
	}
	return out
}

// Delivery is the per-customer outcome of a bulk send.
type Delivery struct {
	CustomerID string
	Err        error
}

// BulkResult tallies a bulk send.
type BulkResult struct {
	Sent    int
	Failed  int
	Details []Delivery
}

// SendBulk delivers the same message to many customers over one channel.
// Individual failures are tallied, never aborting the rest.
func (s *Service) SendBulk(ctx context.Context, customerIDs []string, message string, channel domnotif.Channel) BulkResult {
	var result BulkResult
	for _, customerID := range customerIDs {
		err := s.Notify(ctx, customerID, message, channel)
		if err != nil {
			result.Failed++
		} else {
			result.Sent++
		}
		result.Details = append(result.Details, Delivery{CustomerID: customerID, Err: err})
	}

	logctx.FromOr(ctx, s.log).Info("notification_bulk_done",
		observability.F("sent", result.Sent),
		observability.F("failed", result.Failed),
	)
	return result
}

// Stats aggregates the sent history.
type Stats struct {
	Total      int
	ByChannel  map[domnotif.Channel]int
	ByCustomer map[string]int
}

func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Total:      len(s.history),
		ByChannel:  make(map[domnotif.Channel]int),
		ByCustomer: make(map[string]int),
	}
	for _, msg := range s.history {
		stats.ByChannel[msg.Channel]++
		stats.ByCustomer[msg.CustomerID]++
	}
	return stats
}

func channelNames(channels []domnotif.Channel) []string {
	names := make([]string, 0, len(channels))
	for _, c := range channels {
		names = append(names, string(c))
	}
	return names
}
