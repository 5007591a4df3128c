package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookingintake/internal/domain"
)

// CompletionHook is invoked with the scheduling backend's booking record
// after a successful submission. The hosting page uses it to route to the
// confirmation view and fire its analytics; neither is this service's
// concern, so failures are logged and swallowed.
type CompletionHook interface {
	BookingCompleted(ctx context.Context, t domain.BookingType, record json.RawMessage)
}

// WebhookHook POSTs the booking record to a configured URL.
type WebhookHook struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

func NewWebhookHook(url string, timeout time.Duration, log *zap.Logger) *WebhookHook {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookHook{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

func (h *WebhookHook) BookingCompleted(ctx context.Context, t domain.BookingType, record json.RawMessage) {
	if h.url == "" {
		return
	}

	body, err := json.Marshal(map[string]any{
		"event":       "booking.completed",
		"bookingType": t,
		"booking":     record,
	})
	if err != nil {
		h.log.Warn("completion hook payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		h.log.Warn("completion hook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		h.log.Warn("completion hook delivery", zap.Error(err))
		return
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.log.Warn("completion hook rejected", zap.Int("status", resp.StatusCode))
	}
}

// NoopHook is used when no completion webhook is configured.
type NoopHook struct{}

func (NoopHook) BookingCompleted(context.Context, domain.BookingType, json.RawMessage) {}
