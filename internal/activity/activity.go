// Package activity records what happened to the journal as a stream of events.
// Events are delivered asynchronously by a Worker to a Sink; losing one never
// affects balances, which are always derived from the journal itself.
package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the journal.
const (
	TypeParticipantAdded   = "participant_added"
	TypeExpenseCreated     = "expense_created"
	TypeSettlementRecorded = "settlement_recorded"
)

type Event struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"event_type"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

func WithMetadata(key, value string) EventOption {
	return func(e *Event) {
		e.Metadata[key] = value
	}
}

func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Sink persists events.
type Sink interface {
	Save(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Save(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Logger accepts events for delivery. Log must not block.
type Logger interface {
	Log(e Event)
}

// Discard is a Logger that drops every event.
var Discard Logger = discard{}

type discard struct{}

func (discard) Log(Event) {}
