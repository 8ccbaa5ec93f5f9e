// Package storage provides abstractions for persistent journal storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrConflict is returned when a record with the same identifier already exists.
var ErrConflict = errors.New("record already exists")

// Store defines the interface for journal persistence.
// The journal is append-only: records are created and listed, never updated or deleted.
// This abstraction allows swapping storage backends (SQLite, bbolt, memory)
// without changing the journal.
type Store interface {
	// CreateParticipant persists a newly registered participant.
	// Returns ErrConflict if the name is already taken.
	CreateParticipant(ctx context.Context, participant *models.Participant) error

	// ListParticipants returns all participants in registration order.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// CreateExpense appends an expense. The caller assigns the ID.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns all expenses ordered by ID.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// CreateSettlement appends a settlement. The caller assigns the ID.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlements returns all settlements ordered by ID.
	ListSettlements(ctx context.Context) ([]models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
