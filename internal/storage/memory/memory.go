// Package memory provides an in-process storage.Store. Nothing survives a restart;
// it backs tests and the "memory" store setting.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps journal records in slices guarded by a mutex.
type Store struct {
	mu           sync.Mutex
	participants []models.Participant
	expenses     []models.Expense
	settlements  []models.Settlement
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

func (s *Store) CreateParticipant(_ context.Context, participant *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.participants {
		if p.Name == participant.Name {
			return fmt.Errorf("participant %s: %w", participant.Name, storage.ErrConflict)
		}
	}
	s.participants = append(s.participants, *participant)
	return nil
}

func (s *Store) ListParticipants(_ context.Context) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.participants), nil
}

func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.expenses {
		if e.ID == expense.ID {
			return fmt.Errorf("expense %d: %w", expense.ID, storage.ErrConflict)
		}
	}
	e := *expense
	e.Participants = slices.Clone(expense.Participants)
	e.Shares = slices.Clone(expense.Shares)
	s.expenses = append(s.expenses, e)
	slices.SortStableFunc(s.expenses, func(a, b models.Expense) int { return cmp.Compare(a.ID, b.ID) })
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Expense, len(s.expenses))
	for i, e := range s.expenses {
		e.Participants = slices.Clone(e.Participants)
		e.Shares = slices.Clone(e.Shares)
		out[i] = e
	}
	return out, nil
}

func (s *Store) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.settlements {
		if st.ID == settlement.ID {
			return fmt.Errorf("settlement %d: %w", settlement.ID, storage.ErrConflict)
		}
	}
	s.settlements = append(s.settlements, *settlement)
	slices.SortStableFunc(s.settlements, func(a, b models.Settlement) int { return cmp.Compare(a.ID, b.ID) })
	return nil
}

func (s *Store) ListSettlements(_ context.Context) ([]models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.settlements), nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
