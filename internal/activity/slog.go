package activity

import (
	"context"
	"log/slog"
)

// SlogSink writes events to the default slog logger. Used when the store
// has nowhere to keep them.
var SlogSink Sink = SinkFunc(func(ctx context.Context, e Event) error {
	slog.InfoContext(ctx, "Activity",
		"event_id", e.ID,
		"event_type", e.Type,
		"metadata", e.Metadata,
	)
	return nil
})
