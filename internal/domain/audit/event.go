// Package audit defines the structured observability events the core emits
// after every mutating operation and on every validation failure. Events are
// written fire-and-forget; nothing in the core ever reads them back.
package audit

import (
	"context"
	"time"
)

// Level classifies event severity.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Results reported alongside the level.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultWarn    = "warn"
)

// Event is one structured observability record: a user-facing summary plus
// technical detail, tied to a component and action.
type Event struct {
	Component        string    `bson:"component"`
	Action           string    `bson:"action"`
	Level            Level     `bson:"level"`
	Result           string    `bson:"result"`
	Title            string    `bson:"title"`
	UserSummary      string    `bson:"user_summary"`
	TechnicalDetails string    `bson:"technical_details"`
	CorrelationID    string    `bson:"correlation_id"`
	Environment      string    `bson:"environment"`
	CreatedAt        time.Time `bson:"created_at"`
}

// Recorder is the write-only sink consumed by the core.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Store persists events and enforces retention.
type Store interface {
	Insert(ctx context.Context, event *Event) error

	// Trim deletes the oldest events beyond the retention count.
	Trim(ctx context.Context, retention int64) error
}
