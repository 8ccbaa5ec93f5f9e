// Package storagetest holds behavior tests shared by every storage.Store backend.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Run exercises a fresh store returned by newStore. The store is closed by Run.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()
	store := newStore(t)
	defer store.Close()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("participants keep registration order", func(t *testing.T) {
		for i, name := range []string{"Charlie", "Alice", "Bob"} {
			p := &models.Participant{Name: name, JoinedAt: now.Add(time.Duration(i) * time.Minute)}
			if err := store.CreateParticipant(ctx, p); err != nil {
				t.Fatalf("CreateParticipant(%s) failed: %v", name, err)
			}
		}

		got, err := store.ListParticipants(ctx)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		want := []string{"Charlie", "Alice", "Bob"}
		if len(got) != len(want) {
			t.Fatalf("got %d participants, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i].Name != want[i] {
				t.Errorf("participant %d = %s, want %s", i, got[i].Name, want[i])
			}
		}
		if !got[0].JoinedAt.Equal(now) {
			t.Errorf("JoinedAt = %v, want %v", got[0].JoinedAt, now)
		}
	})

	t.Run("duplicate participant conflicts", func(t *testing.T) {
		err := store.CreateParticipant(ctx, &models.Participant{Name: "Alice", JoinedAt: now})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})

	t.Run("expenses round-trip with shares", func(t *testing.T) {
		expenses := []*models.Expense{
			{
				ID:           1,
				Description:  "Dinner",
				Amount:       decimal.RequireFromString("90.00"),
				PaidBy:       "Alice",
				Participants: []string{"Alice", "Bob", "Charlie"},
				Policy:       models.SplitEqual,
				Shares: models.Shares{
					{Participant: "Alice", Amount: decimal.RequireFromString("30")},
					{Participant: "Bob", Amount: decimal.RequireFromString("30")},
					{Participant: "Charlie", Amount: decimal.RequireFromString("30")},
				},
				CreatedAt: now,
			},
			{
				ID:           2,
				Description:  "Taxi",
				Amount:       decimal.RequireFromString("100"),
				PaidBy:       "Bob",
				Participants: []string{"Charlie", "Alice"},
				Policy:       models.SplitExact,
				Shares: models.Shares{
					{Participant: "Charlie", Amount: decimal.RequireFromString("33.3333333333333333")},
					{Participant: "Alice", Amount: decimal.RequireFromString("66.6666666666666667")},
				},
				CreatedAt: now.Add(time.Hour),
			},
		}
		for _, e := range expenses {
			if err := store.CreateExpense(ctx, e); err != nil {
				t.Fatalf("CreateExpense(%d) failed: %v", e.ID, err)
			}
		}

		got, err := store.ListExpenses(ctx)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d expenses, want 2", len(got))
		}
		for i, want := range expenses {
			e := got[i]
			if e.ID != want.ID || e.Description != want.Description || e.PaidBy != want.PaidBy || e.Policy != want.Policy {
				t.Errorf("expense %d = %+v, want %+v", i, e, *want)
			}
			if !e.Amount.Equal(want.Amount) {
				t.Errorf("expense %d amount = %v, want %v", i, e.Amount, want.Amount)
			}
			if !e.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("expense %d created_at = %v, want %v", i, e.CreatedAt, want.CreatedAt)
			}
			if len(e.Shares) != len(want.Shares) || len(e.Participants) != len(want.Participants) {
				t.Fatalf("expense %d has %d shares, want %d", i, len(e.Shares), len(want.Shares))
			}
			for j, share := range want.Shares {
				if e.Shares[j].Participant != share.Participant || !e.Shares[j].Amount.Equal(share.Amount) {
					t.Errorf("expense %d share %d = %+v, want %+v", i, j, e.Shares[j], share)
				}
				if e.Participants[j] != want.Participants[j] {
					t.Errorf("expense %d participant %d = %s, want %s", i, j, e.Participants[j], want.Participants[j])
				}
			}
		}
	})

	t.Run("duplicate expense id conflicts", func(t *testing.T) {
		err := store.CreateExpense(ctx, &models.Expense{
			ID: 1, Description: "Again", Amount: decimal.NewFromInt(1), PaidBy: "Alice",
			Participants: []string{"Alice"}, Policy: models.SplitEqual,
			Shares:    models.Shares{{Participant: "Alice", Amount: decimal.NewFromInt(1)}},
			CreatedAt: now,
		})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
		got, _ := store.ListExpenses(ctx)
		if len(got) != 2 || got[0].Description != "Dinner" {
			t.Errorf("conflicting insert changed the journal: %+v", got)
		}
	})

	t.Run("settlements round-trip", func(t *testing.T) {
		settlements := []*models.Settlement{
			{ID: 1, From: "Bob", To: "Alice", Amount: decimal.RequireFromString("12.50"), CreatedAt: now},
			{ID: 2, From: "Charlie", To: "Bob", Amount: decimal.RequireFromString("5"), Note: "cash", CreatedAt: now},
		}
		for _, s := range settlements {
			if err := store.CreateSettlement(ctx, s); err != nil {
				t.Fatalf("CreateSettlement(%d) failed: %v", s.ID, err)
			}
		}

		got, err := store.ListSettlements(ctx)
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d settlements, want 2", len(got))
		}
		if got[0].From != "Bob" || got[0].To != "Alice" || !got[0].Amount.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("settlement 0 = %+v", got[0])
		}
		if got[0].Note != "" || got[1].Note != "cash" {
			t.Errorf("notes = %q/%q, want \"\"/\"cash\"", got[0].Note, got[1].Note)
		}
	})
}
