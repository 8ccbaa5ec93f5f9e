package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmynk/splitledger/internal/activity"
)

// SaveEvent stores an activity event. It satisfies activity.SinkFunc.
func (s *SQLiteStore) SaveEvent(ctx context.Context, e activity.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, event_type, event_data, event_metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.Type, string(data), string(metadata), toMillis(e.CreatedAt),
	)
	if err != nil {
		return wrapInsert("event", err)
	}
	return nil
}

// ListEventsByType returns stored events of the given type, oldest first.
// Event data is returned as raw JSON.
func (s *SQLiteStore) ListEventsByType(ctx context.Context, eventType string) ([]activity.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_type, event_data, event_metadata, created_at
		 FROM events WHERE event_type = ? ORDER BY created_at, rowid`,
		eventType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []activity.Event
	for rows.Next() {
		var (
			e         activity.Event
			id        string
			data      string
			metadata  string
			createdAt int64
		)
		if err := rows.Scan(&id, &e.Type, &data, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := e.ID.UnmarshalText([]byte(id)); err != nil {
			return nil, fmt.Errorf("failed to parse event id: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse event metadata: %w", err)
		}
		e.Data = json.RawMessage(data)
		e.CreatedAt = fromMillis(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
