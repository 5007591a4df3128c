// Package notify carries the user-facing notification side channel and the
// booking-completed callback as injectable capabilities, so the intake
// pipeline stays testable without a UI.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier surfaces transient user-facing messages (the front-end renders
// them as toasts). Implementations must not block the pipeline.
type Notifier interface {
	Success(ctx context.Context, sessionID, message string)
	Error(ctx context.Context, sessionID, message string)
}

// LogNotifier writes notifications to the service log. The front-end learns
// about outcomes from the API responses; the log is the operator's view.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(_ context.Context, sessionID, message string) {
	n.log.Info("notify", zap.String("session_id", sessionID), zap.String("kind", "success"), zap.String("message", message))
}

func (n *LogNotifier) Error(_ context.Context, sessionID, message string) {
	n.log.Warn("notify", zap.String("session_id", sessionID), zap.String("kind", "error"), zap.String("message", message))
}
