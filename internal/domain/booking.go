package domain

type BookingType string

const (
	TypeRevenueAudit BookingType = "revenue_audit"
	TypeConsultation BookingType = "consultation"
)

func (t BookingType) Valid() bool {
	return t == TypeRevenueAudit || t == TypeConsultation
}

type MeetingType string

const (
	MeetingVideoCall MeetingType = "video_call"
	MeetingPhoneCall MeetingType = "phone_call"
	MeetingInPerson  MeetingType = "in_person"
)

func (m MeetingType) Valid() bool {
	return m == MeetingVideoCall || m == MeetingPhoneCall || m == MeetingInPerson
}

type ConsultationType string

const (
	ConsultStrategy       ConsultationType = "strategy"
	ConsultTechnical      ConsultationType = "technical"
	ConsultImplementation ConsultationType = "implementation"
	ConsultOptimization   ConsultationType = "optimization"
	ConsultTraining       ConsultationType = "training"
	ConsultGeneral        ConsultationType = "general"
)

// AuditDetails is the type-specific payload for revenue audit bookings.
type AuditDetails struct {
	SpecificAreas  []string `json:"specific_areas"`
	CurrentSystems []string `json:"current_systems"`
	RevenueGoals   string   `json:"revenue_goals,omitempty"`
	PainPoints     string   `json:"pain_points,omitempty"`
}

// ConsultationDetails is the type-specific payload for consultation bookings.
type ConsultationDetails struct {
	ConsultationType  ConsultationType `json:"consultation_type"`
	Objectives        string           `json:"objectives"`
	CurrentSituation  string           `json:"current_situation,omitempty"`
	Budget            string           `json:"budget,omitempty"`
	Timeline          string           `json:"timeline,omitempty"`
	SpecificQuestions string           `json:"specific_questions,omitempty"`
}

// IntakeState holds everything entered or derived for one in-progress
// booking. Exactly one of Audit/Consultation is non-nil, keyed by BookingType.
type IntakeState struct {
	BookingType BookingType `json:"booking_type"`

	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone,omitempty"`
	Company     string `json:"company"`
	Industry    string `json:"industry,omitempty"`
	TeamSize    string `json:"team_size,omitempty"`

	SelectedDate string `json:"selected_date,omitempty"` // yyyy-MM-dd
	SelectedTime string `json:"selected_time,omitempty"` // HH:MM slot label
	Duration     int    `json:"duration"`                // minutes
	TimeZone     string `json:"time_zone"`

	MeetingType MeetingType `json:"meeting_type"`

	Audit        *AuditDetails        `json:"audit,omitempty"`
	Consultation *ConsultationDetails `json:"consultation,omitempty"`
}

// NewIntakeState returns an empty state for the given type with the
// type-specific payload allocated and the default duration applied.
func NewIntakeState(t BookingType, timeZone string) *IntakeState {
	s := &IntakeState{
		TimeZone:    timeZone,
		MeetingType: MeetingVideoCall,
	}
	s.SetBookingType(t)
	return s
}

// SetBookingType switches the branch: it swaps the payload union and resets
// the duration to the type default, overwriting any prior value.
func (s *IntakeState) SetBookingType(t BookingType) {
	s.BookingType = t
	s.Duration = DefaultDuration(t)
	switch t {
	case TypeRevenueAudit:
		s.Audit = &AuditDetails{}
		s.Consultation = nil
	case TypeConsultation:
		s.Consultation = &ConsultationDetails{}
		s.Audit = nil
	}
}

// SetConsultationType records the subtype and unconditionally overwrites the
// duration with the subtype's fixed value.
func (s *IntakeState) SetConsultationType(ct ConsultationType) {
	if s.Consultation == nil {
		return
	}
	s.Consultation.ConsultationType = ct
	s.Duration = ConsultationDuration(ct)
}
