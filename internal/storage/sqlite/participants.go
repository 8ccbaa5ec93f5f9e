package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateParticipant inserts a new participant into the database.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (name, joined_at) VALUES (?, ?)",
		participant.Name, toMillis(participant.JoinedAt),
	)
	if err != nil {
		return wrapInsert("participant", err)
	}
	return nil
}

// ListParticipants retrieves all participants in registration order.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, joined_at FROM participants ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var (
			p        models.Participant
			joinedAt int64
		)
		if err := rows.Scan(&p.Name, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.JoinedAt = fromMillis(joinedAt)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}
