package notification

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownChannel is returned when a message names a channel outside the
// supported set.
var ErrUnknownChannel = errors.New("notification: unknown channel")

// Channel identifies a delivery medium.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

// Valid reports whether c is one of the supported channels.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp:
		return true
	}
	return false
}

// Message is one notification as recorded in the sent history.
type Message struct {
	CustomerID string
	Body       string
	Channel    Channel
	SentAt     time.Time
}

// Sender transmits a rendered message over one channel. Implementations
// stand in for real email, SMS and push providers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
