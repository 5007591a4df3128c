package intake

import (
	"errors"
	"fmt"

	"bookingintake/internal/domain"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrValidation        = errors.New("validation error")
	ErrTypeLocked        = errors.New("booking type can only be changed on step 1")
	ErrDateRequired      = errors.New("no date selected")
	ErrDateNotSelectable = errors.New("date not selectable")
	ErrSlotNotOffered    = errors.New("time is not among the offered slots")
	ErrSubmitInFlight    = errors.New("submission already in flight")
)

// GateError reports that the step gate blocked a forward transition. Message
// is the inline text shown next to the continue control.
type GateError struct {
	Step    domain.WizardStep
	Message string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("step %d incomplete: %s", e.Step, e.Message)
}

// SubmissionError wraps a failed booking POST with the user-facing message:
// the backend-provided one when present, a generic one otherwise.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
