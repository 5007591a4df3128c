package domain

// WizardStep is the 1..4 position in the intake flow:
// contact, scheduling, details, review.
type WizardStep int

const (
	StepContact    WizardStep = 1
	StepScheduling WizardStep = 2
	StepDetails    WizardStep = 3
	StepReview     WizardStep = 4
)

func (s WizardStep) Valid() bool {
	return s >= StepContact && s <= StepReview
}

// Next returns the following step, clamped at the review step.
func (s WizardStep) Next() WizardStep {
	if s >= StepReview {
		return StepReview
	}
	return s + 1
}

// Prev returns the preceding step, clamped at the contact step.
// Retreating is never gated.
func (s WizardStep) Prev() WizardStep {
	if s <= StepContact {
		return StepContact
	}
	return s - 1
}
