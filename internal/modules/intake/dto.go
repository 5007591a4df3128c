package intake

import (
	"encoding/json"
	"fmt"

	"bookingintake/internal/domain"
	"bookingintake/internal/session"
)

type StartSessionRequest struct {
	BookingType string `json:"booking_type" validate:"omitempty,oneof=revenue_audit consultation"` // page context default; empty means revenue_audit
	TimeZone    string `json:"time_zone"`                                                          // resolved client-side at session start
}

// UpdateSessionRequest is a partial update; only non-nil fields are applied.
type UpdateSessionRequest struct {
	BookingType *string `json:"booking_type,omitempty" validate:"omitempty,oneof=revenue_audit consultation"`

	ClientName  *string `json:"client_name,omitempty"`
	ClientEmail *string `json:"client_email,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`
	Company     *string `json:"company,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	TeamSize    *string `json:"team_size,omitempty"`

	SelectedDate *string `json:"selected_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SelectedTime *string `json:"selected_time,omitempty" validate:"omitempty,datetime=15:04"`
	MeetingType  *string `json:"meeting_type,omitempty" validate:"omitempty,oneof=video_call phone_call in_person"`

	SpecificAreas  *[]string `json:"specific_areas,omitempty"`
	CurrentSystems *[]string `json:"current_systems,omitempty"`
	RevenueGoals   *string   `json:"revenue_goals,omitempty"`
	PainPoints     *string   `json:"pain_points,omitempty"`

	ConsultationType  *string `json:"consultation_type,omitempty" validate:"omitempty,oneof=strategy technical implementation optimization training general"`
	Objectives        *string `json:"objectives,omitempty"`
	CurrentSituation  *string `json:"current_situation,omitempty"`
	Budget            *string `json:"budget,omitempty"`
	Timeline          *string `json:"timeline,omitempty"`
	SpecificQuestions *string `json:"specific_questions,omitempty"`
}

type AvailabilityView struct {
	Status string   `json:"status"`
	Date   string   `json:"date,omitempty"`
	Slots  []string `json:"slots"`
	Reason string   `json:"reason,omitempty"`
}

// ReviewView is the step 4 summary. Every user-entered field is still
// visible through State; this block only adds the display strings.
type ReviewView struct {
	Booking     string `json:"booking"`
	Duration    string `json:"duration"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Contact     string `json:"contact"`
	MeetingType string `json:"meeting_type"`
}

type SessionResponse struct {
	ID                string             `json:"id"`
	Step              int                `json:"step"`
	CanAdvance        bool               `json:"can_advance"`
	ValidationMessage string             `json:"validation_message,omitempty"`
	Submitting        bool               `json:"submitting"`
	State             domain.IntakeState `json:"state"`
	Availability      AvailabilityView   `json:"availability"`
	Review            *ReviewView        `json:"review,omitempty"`
}

type SubmitResponse struct {
	Completed bool            `json:"completed"`
	Booking   json.RawMessage `json:"booking,omitempty"`
	Message   string          `json:"message,omitempty"`
}

func toSessionResponse(s *session.Session) SessionResponse {
	slots := s.Availability.Slots
	if slots == nil {
		slots = []string{}
	}

	resp := SessionResponse{
		ID:                s.ID,
		Step:              int(s.Step),
		CanAdvance:        domain.CanAdvance(s.Step, &s.State),
		ValidationMessage: domain.ValidationMessage(s.Step, &s.State),
		Submitting:        s.Submitting,
		State:             s.State,
		Availability: AvailabilityView{
			Status: string(s.Availability.Status),
			Date:   s.Availability.Key.Date,
			Slots:  slots,
			Reason: s.Availability.Reason,
		},
	}

	if s.Step == domain.StepReview {
		resp.Review = &ReviewView{
			Booking:     s.State.DisplayLabel(),
			Duration:    fmt.Sprintf("%d minutes", s.State.Duration),
			Date:        s.State.SelectedDate,
			Time:        s.State.SelectedTime,
			Contact:     fmt.Sprintf("%s — %s", s.State.ClientName, s.State.ClientEmail),
			MeetingType: string(s.State.MeetingType),
		}
	}

	return resp
}
