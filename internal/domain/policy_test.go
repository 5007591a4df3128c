package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetBookingType_ResetsDuration(t *testing.T) {
	s := NewIntakeState(TypeConsultation, "UTC")
	assert.Equal(t, 30, s.Duration)
	assert.NotNil(t, s.Consultation)
	assert.Nil(t, s.Audit)

	s.SetConsultationType(ConsultTechnical)
	assert.Equal(t, 60, s.Duration)

	// switching type overwrites whatever was there and swaps the union
	s.SetBookingType(TypeRevenueAudit)
	assert.Equal(t, 60, s.Duration)
	assert.NotNil(t, s.Audit)
	assert.Nil(t, s.Consultation)

	s.SetBookingType(TypeConsultation)
	assert.Equal(t, 30, s.Duration)
	assert.Nil(t, s.Audit)
}

func TestSetConsultationType_OverwritesDuration(t *testing.T) {
	cases := []struct {
		ct   ConsultationType
		want int
	}{
		{ConsultStrategy, 45},
		{ConsultTechnical, 60},
		{ConsultImplementation, 60},
		{ConsultOptimization, 45},
		{ConsultTraining, 30},
		{ConsultGeneral, 30},
	}
	s := NewIntakeState(TypeConsultation, "UTC")
	for _, c := range cases {
		s.SetConsultationType(c.ct)
		assert.Equal(t, c.want, s.Duration, "duration for %s", c.ct)
	}

	// overwrite even when the previous subtype set a different value
	s.SetConsultationType(ConsultOptimization)
	s.SetConsultationType(ConsultTechnical)
	assert.Equal(t, 60, s.Duration)
}

func TestDisplayLabel(t *testing.T) {
	s := NewIntakeState(TypeRevenueAudit, "UTC")
	assert.Equal(t, "Revenue Audit", s.DisplayLabel())

	s.SetBookingType(TypeConsultation)
	assert.Equal(t, "Strategy Consultation", s.DisplayLabel())

	s.SetConsultationType(ConsultTraining)
	assert.Equal(t, "Training Session", s.DisplayLabel())
}

func TestValidConsultationType(t *testing.T) {
	assert.True(t, ValidConsultationType(ConsultGeneral))
	assert.False(t, ValidConsultationType(ConsultationType("psychic")))
}
