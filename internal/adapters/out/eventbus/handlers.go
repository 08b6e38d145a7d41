package eventbus

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bnema/stevedore/internal/adapters/out/telemetry"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

var (
	_ out.EventHandler = (*AuditLogger)(nil)
	_ out.EventHandler = (*OperationCounter)(nil)
)

// AuditLogger writes every event as an info-level audit record.
type AuditLogger struct {
	log zerolog.Logger
}

// NewAuditLogger creates an audit handler writing to log.
func NewAuditLogger(log zerolog.Logger) *AuditLogger {
	return &AuditLogger{log: log.With().Str(logging.FieldHandler, "audit").Logger()}
}

// CanHandle accepts every event type.
func (a *AuditLogger) CanHandle(domain.EventType) bool { return true }

// Handle logs the event.
func (a *AuditLogger) Handle(_ context.Context, event domain.Event) error {
	entry := a.log.Info()
	if event.Type == domain.EventLoginFailed {
		entry = a.log.Warn()
	}
	entry.
		Str("event_id", event.ID).
		Str(logging.FieldEvent, string(event.Type)).
		Str(logging.FieldProject, event.Project).
		Str("subject", event.Subject).
		Time("at", event.Timestamp).
		Msg("audit")
	return nil
}

// OperationCounter counts events into the operations and login metrics.
type OperationCounter struct {
	metrics *telemetry.Metrics
}

// NewOperationCounter creates a handler feeding m.
func NewOperationCounter(m *telemetry.Metrics) *OperationCounter {
	return &OperationCounter{metrics: m}
}

// CanHandle accepts every event type.
func (c *OperationCounter) CanHandle(domain.EventType) bool { return true }

// Handle increments the counter matching the event.
func (c *OperationCounter) Handle(_ context.Context, event domain.Event) error {
	switch event.Type {
	case domain.EventLogin:
		c.metrics.LoginAttempts.WithLabelValues("success").Inc()
	case domain.EventLoginFailed:
		c.metrics.LoginAttempts.WithLabelValues("failure").Inc()
	case domain.EventLogout:
	default:
		c.metrics.Operations.WithLabelValues(string(event.Type)).Inc()
	}
	return nil
}
