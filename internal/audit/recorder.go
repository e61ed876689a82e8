// Package audit implements the fire-and-forget recorder that writes
// structured events to the audit store and mirrors them to the
// application log.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lifesim-bank/internal/domain/audit"
)

type correlationIDKey struct{}

// ContextWithCorrelationID stores the request correlation ID for the recorder.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID set by the HTTP layer,
// or an empty string when none was set.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Recorder writes audit events to the store and mirrors them to the logger.
// Storage failures are logged and swallowed: an observability outage must
// never fail the operation being observed.
type Recorder struct {
	store       audit.Store
	logger      *slog.Logger
	environment string
	retention   int64
}

// NewRecorder creates a recorder backed by the given store.
func NewRecorder(logger *slog.Logger, store audit.Store, environment string, retention int64) *Recorder {
	return &Recorder{
		store:       store,
		logger:      logger,
		environment: environment,
		retention:   retention,
	}
}

// Record stamps and persists one event, then trims the store to the
// retention limit.
func (r *Recorder) Record(ctx context.Context, event audit.Event) {
	if event.Level == "" {
		event.Level = audit.LevelInfo
	}
	if event.CorrelationID == "" {
		event.CorrelationID = CorrelationIDFromContext(ctx)
	}
	if event.CorrelationID == "" {
		event.CorrelationID = uuid.New().String()
	}
	event.Environment = r.environment
	event.CreatedAt = time.Now().UTC()

	r.mirror(event)

	if err := r.store.Insert(ctx, &event); err != nil {
		r.logger.Error("Failed to persist audit event",
			"component", event.Component,
			"action", event.Action,
			"error", err)
		return
	}

	if err := r.store.Trim(ctx, r.retention); err != nil {
		r.logger.Error("Failed to trim audit events", "error", err)
	}
}

func (r *Recorder) mirror(event audit.Event) {
	attrs := []any{
		"component", event.Component,
		"action", event.Action,
		"result", event.Result,
		"details", event.TechnicalDetails,
		"correlation_id", event.CorrelationID,
	}

	switch event.Level {
	case audit.LevelError:
		r.logger.Error(event.Title, attrs...)
	case audit.LevelWarn:
		r.logger.Warn(event.Title, attrs...)
	default:
		r.logger.Info(event.Title, attrs...)
	}
}
