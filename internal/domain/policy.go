package domain

// Static branch policy lookup tables. Each selection unconditionally
// overwrites the duration, so no precedence rules are needed.

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

var typeDefaultDurations = map[BookingType]int{
	TypeRevenueAudit: 60,
	TypeConsultation: 30,
}

var consultationDurations = map[ConsultationType]int{
	ConsultStrategy:       45,
	ConsultTechnical:      60,
	ConsultImplementation: 60,
	ConsultOptimization:   45,
	ConsultTraining:       30,
	ConsultGeneral:        30,
}

var typeLabels = map[BookingType]string{
	TypeRevenueAudit: "Revenue Audit",
	TypeConsultation: "Strategy Consultation",
}

var consultationLabels = map[ConsultationType]string{
	ConsultStrategy:       "Strategy Consultation",
	ConsultTechnical:      "Technical Consultation",
	ConsultImplementation: "Implementation Consultation",
	ConsultOptimization:   "Optimization Consultation",
	ConsultTraining:       "Training Session",
	ConsultGeneral:        "General Consultation",
}

func DefaultDuration(t BookingType) int {
	return typeDefaultDurations[t]
}

func ConsultationDuration(ct ConsultationType) int {
	if d, ok := consultationDurations[ct]; ok {
		return d
	}
	return typeDefaultDurations[TypeConsultation]
}

func ValidConsultationType(ct ConsultationType) bool {
	_, ok := consultationDurations[ct]
	return ok
}

func TypeLabel(t BookingType) string {
	return typeLabels[t]
}

// DisplayLabel returns the label shown in the review step: the subtype label
// for consultations that picked one, the type label otherwise.
func (s *IntakeState) DisplayLabel() string {
	if s.BookingType == TypeConsultation && s.Consultation != nil {
		if l, ok := consultationLabels[s.Consultation.ConsultationType]; ok {
			return l
		}
	}
	return TypeLabel(s.BookingType)
}
