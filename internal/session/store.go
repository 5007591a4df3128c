// Package session owns the per-wizard intake session: one session per
// in-progress booking, discarded on submission or abandonment. There is no
// draft persistence beyond the TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"bookingintake/internal/domain"
)

var ErrNotFound = errors.New("session not found")

// Session is the single mutable aggregate for one wizard run.
type Session struct {
	ID           string              `json:"id"`
	Step         domain.WizardStep   `json:"step"`
	State        domain.IntakeState  `json:"state"`
	Availability domain.Availability `json:"availability"`
	Submitting   bool                `json:"submitting"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// New creates a fresh session on step 1 with the given default type applied.
func New(t domain.BookingType, timeZone string) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		Step:      domain.StepContact,
		State:     *domain.NewIntakeState(t, timeZone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Availability.Reset()
	return s
}

// Store persists sessions for the duration of a wizard run.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
