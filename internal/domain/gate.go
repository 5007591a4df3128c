package domain

import "strings"

// The step gate decides whether the wizard may advance past the given step.
// It is pure: re-evaluated on every state change, it drives both the
// continue control and the inline message next to it.

func CanAdvance(step WizardStep, s *IntakeState) bool {
	return ValidationMessage(step, s) == ""
}

// ValidationMessage returns a short human-readable reason the step is not yet
// satisfied, or the empty string when it is. Email format is deliberately not
// checked here beyond non-emptiness; the scheduling backend owns that.
func ValidationMessage(step WizardStep, s *IntakeState) string {
	switch step {
	case StepContact:
		if empty(s.ClientName) || empty(s.ClientEmail) || empty(s.Company) {
			return "Please fill in your name, email and company"
		}
	case StepScheduling:
		if empty(s.SelectedDate) || empty(s.SelectedTime) {
			return "Please select a date and time"
		}
	case StepDetails:
		switch s.BookingType {
		case TypeRevenueAudit:
			if s.Audit == nil || len(s.Audit.SpecificAreas) == 0 {
				return "Please select at least one area to focus on"
			}
		case TypeConsultation:
			if s.Consultation == nil || s.Consultation.ConsultationType == "" || empty(s.Consultation.Objectives) {
				return "Please choose a consultation type and describe your objectives"
			}
		}
	case StepReview:
		// review-only, always satisfied
	}
	return ""
}

func empty(v string) bool {
	return strings.TrimSpace(v) == ""
}
