package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookingintake/internal/domain"
)

func newTestClient(auditURL, consultURL string) *Client {
	return NewClient(Config{
		AuditBaseURL:        auditURL,
		ConsultationBaseURL: consultURL,
		Timeout:             2 * time.Second,
	}, zap.NewNop())
}

func TestAvailability_TargetsRootByType(t *testing.T) {
	var auditPath, consultPath string

	auditSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auditPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"availableSlots": []string{"09:00", "10:00"}})
	}))
	defer auditSrv.Close()

	consultSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		consultPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"availableSlots": []string{"14:00"}})
	}))
	defer consultSrv.Close()

	c := newTestClient(auditSrv.URL+"/audits", consultSrv.URL+"/consultations")

	slots, err := c.Availability(context.Background(), domain.TypeRevenueAudit, "2030-04-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)
	assert.Equal(t, "/audits/availability/2030-04-02", auditPath)

	slots, err = c.Availability(context.Background(), domain.TypeConsultation, "2030-04-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00"}, slots)
	assert.Equal(t, "/consultations/availability/2030-04-02", consultPath)
}

func TestAvailability_MissingSlotsFieldYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	slots, err := c.Availability(context.Background(), domain.TypeRevenueAudit, "2030-04-02")
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Len(t, slots, 0)
}

func TestAvailability_Non2xxIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"calendar offline"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.Availability(context.Background(), domain.TypeConsultation, "2030-04-02")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "calendar offline", apiErr.Message)
}

func TestCreateBooking_PostsPayloadWithIdempotencyKey(t *testing.T) {
	var got BookingRequest
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotKey = r.Header.Get("X-Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"status":"pending"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/audits", srv.URL+"/consultations")

	payload := BookingRequest{
		BookingType:      domain.TypeConsultation,
		ClientName:       "Jane Doe",
		ClientEmail:      "jane@x.com",
		Company:          "Acme",
		SelectedDate:     "2030-04-02",
		SelectedTime:     "10:00",
		Duration:         45,
		TimeZone:         "UTC",
		MeetingType:      domain.MeetingVideoCall,
		ConsultationType: domain.ConsultStrategy,
		Objectives:       "Grow pipeline",
		ScheduledAt:      "2030-04-02T10:00:00Z",
		Title:            "Strategy Consultation - Acme",
	}

	record, err := c.CreateBooking(context.Background(), domain.TypeConsultation, payload, "sess-123")
	require.NoError(t, err)

	assert.Equal(t, "sess-123", gotKey)
	assert.Equal(t, 45, got.Duration)
	assert.Equal(t, domain.ConsultStrategy, got.ConsultationType)
	assert.Equal(t, "Strategy Consultation - Acme", got.Title)
	assert.JSONEq(t, `{"id":42,"status":"pending"}`, string(record))
}

func TestCreateBooking_FailureCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"slot already booked"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.CreateBooking(context.Background(), domain.TypeRevenueAudit, BookingRequest{}, "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "slot already booked", apiErr.Message)
}

func TestCreateBooking_UnparseableErrorBodyIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>boom</html>`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.CreateBooking(context.Background(), domain.TypeRevenueAudit, BookingRequest{}, "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.Message)
}
