package email

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/internal/kafka"
)

// Sender turns booking events into traveler notifications. The delivery
// backend is stubbed to structured logs; the real provider hangs off this
// type without touching the worker.
type Sender struct {
	log zerolog.Logger
}

func NewSender(log zerolog.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info().
		Str("type", event.Type).
		Str("booking_reference", event.Reference).
		Str("user_id", event.UserID).
		Str("destination", event.Destination).
		Str("status", event.Status).
		Msg("send booking notification")
	return nil
}
