// Package calendar is the HTTP client for the external scheduling backend.
// The wizard treats the backend as authoritative: it never computes slots
// itself, it only queries and submits.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookingintake/internal/domain"
)

// BookingRequest is the wire payload posted to the scheduling backend. It
// carries every user-entered field plus the two derived ones (ScheduledAt,
// Title). Field names follow the backend's camelCase contract.
type BookingRequest struct {
	BookingType domain.BookingType `json:"bookingType"`

	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`
	Company     string `json:"company"`
	Industry    string `json:"industry,omitempty"`
	TeamSize    string `json:"teamSize,omitempty"`

	SelectedDate string             `json:"selectedDate"`
	SelectedTime string             `json:"selectedTime"`
	Duration     int                `json:"duration"`
	TimeZone     string             `json:"timeZone"`
	MeetingType  domain.MeetingType `json:"meetingType"`

	SpecificAreas  []string `json:"specificAreas,omitempty"`
	CurrentSystems []string `json:"currentSystems,omitempty"`
	RevenueGoals   string   `json:"revenueGoals,omitempty"`
	PainPoints     string   `json:"painPoints,omitempty"`

	ConsultationType  domain.ConsultationType `json:"consultationType,omitempty"`
	Objectives        string                  `json:"objectives,omitempty"`
	CurrentSituation  string                  `json:"currentSituation,omitempty"`
	Budget            string                  `json:"budget,omitempty"`
	Timeline          string                  `json:"timeline,omitempty"`
	SpecificQuestions string                  `json:"specificQuestions,omitempty"`

	ScheduledAt string `json:"scheduledAt"`
	Title       string `json:"title"`
}

// APIError is a non-2xx answer from the scheduling backend. Message carries
// the backend-provided error text when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("calendar backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("calendar backend returned %d", e.StatusCode)
}

type Config struct {
	AuditBaseURL        string
	ConsultationBaseURL string
	Timeout             time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

func (c *Client) baseFor(t domain.BookingType) string {
	base := c.cfg.ConsultationBaseURL
	if t == domain.TypeRevenueAudit {
		base = c.cfg.AuditBaseURL
	}
	return strings.TrimRight(base, "/")
}

type availabilityResponse struct {
	AvailableSlots []string `json:"availableSlots"`
}

// Availability fetches the free slots for the given ISO date from the
// resource root selected by booking type.
func (c *Client) Availability(ctx context.Context, t domain.BookingType, date string) ([]string, error) {
	url := c.baseFor(t) + "/availability/" + date
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("availability fetch failed",
			zap.String("booking_type", string(t)),
			zap.String("date", date),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var out availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.AvailableSlots == nil {
		out.AvailableSlots = []string{}
	}
	return out.AvailableSlots, nil
}

// CreateBooking posts the composed payload to the type's resource root. The
// idempotency key travels as a header so retried requests can be deduplicated
// backend-side. The returned record is opaque to the wizard.
func (c *Client) CreateBooking(ctx context.Context, t domain.BookingType, payload BookingRequest, idempotencyKey string) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseFor(t), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("booking submission failed",
			zap.String("booking_type", string(t)),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	record, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(record), nil
}

// readErrorMessage pulls the optional {"error": "..."} message from a failure
// body. Anything unparseable yields an empty message.
func readErrorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}
