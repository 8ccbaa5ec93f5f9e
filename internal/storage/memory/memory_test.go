package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New() })
}

func TestStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.CreateExpense(ctx, &models.Expense{
		ID:           1,
		Amount:       decimal.NewFromInt(10),
		PaidBy:       "A",
		Participants: []string{"A", "B"},
		Shares: models.Shares{
			{Participant: "A", Amount: decimal.NewFromInt(5)},
			{Participant: "B", Amount: decimal.NewFromInt(5)},
		},
	}))

	got, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	got[0].Participants[0] = "Mallory"
	got[0].Shares[0].Participant = "Mallory"

	again, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Participants[0])
	assert.Equal(t, "A", again[0].Shares[0].Participant)
}
