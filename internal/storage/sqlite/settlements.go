package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	var note interface{} = nil
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, from_participant, to_participant, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.From, settlement.To,
		settlement.Amount.String(), note, toMillis(settlement.CreatedAt),
	)
	if err != nil {
		return wrapInsert("settlement", err)
	}

	return nil
}

// ListSettlements retrieves all settlements ordered by ID.
func (s *SQLiteStore) ListSettlements(ctx context.Context) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_participant, to_participant, amount, note, created_at
		 FROM settlements ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var (
			settlement models.Settlement
			note       sql.NullString
			createdAt  int64
		)
		if err := rows.Scan(&settlement.ID, &settlement.From, &settlement.To,
			&settlement.Amount, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		if note.Valid {
			settlement.Note = note.String
		}
		settlement.CreatedAt = fromMillis(createdAt)

		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
