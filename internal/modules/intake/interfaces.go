package intake

import (
	"context"
	"encoding/json"

	"bookingintake/internal/calendar"
	"bookingintake/internal/domain"
	"bookingintake/internal/session"
)

// SessionStore persists intake sessions for the duration of a wizard run.
type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
	Delete(ctx context.Context, id string) error
}

// CalendarClient talks to the external scheduling backend.
type CalendarClient interface {
	Availability(ctx context.Context, t domain.BookingType, date string) ([]string, error)
	CreateBooking(ctx context.Context, t domain.BookingType, payload calendar.BookingRequest, idempotencyKey string) (json.RawMessage, error)
}

// Notifier surfaces transient user-facing messages.
type Notifier interface {
	Success(ctx context.Context, sessionID, message string)
	Error(ctx context.Context, sessionID, message string)
}

// CompletionHook receives the backend's booking record after a successful
// submission.
type CompletionHook interface {
	BookingCompleted(ctx context.Context, t domain.BookingType, record json.RawMessage)
}
