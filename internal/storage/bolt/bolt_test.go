package bolt

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/activity"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		store, err := New(filepath.Join(t.TempDir(), "journal.bolt"))
		require.NoError(t, err)
		return store
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.bolt")

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.CreateParticipant(ctx, &models.Participant{Name: "Alice", JoinedAt: time.Now()}))
	require.NoError(t, store.CreateExpense(ctx, &models.Expense{
		ID:           1,
		Description:  "Coffee",
		Amount:       decimal.RequireFromString("4.20"),
		PaidBy:       "Alice",
		Participants: []string{"Alice"},
		Policy:       models.SplitEqual,
		Shares:       models.Shares{{Participant: "Alice", Amount: decimal.RequireFromString("4.20")}},
		CreatedAt:    time.Now(),
	}))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	expenses, err := reopened.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(decimal.RequireFromString("4.2")))

	// The name index survives too.
	err = reopened.CreateParticipant(ctx, &models.Participant{Name: "Alice", JoinedAt: time.Now()})
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestStore_RejectsInvalidID(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "journal.bolt"))
	require.NoError(t, err)
	defer store.Close()

	err = store.CreateSettlement(context.Background(), &models.Settlement{ID: 0, From: "A", To: "B", Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestItobOrdering(t *testing.T) {
	assert.Less(t, string(itob(9)), string(itob(10)))
	assert.Less(t, string(itob(255)), string(itob(256)))
}

func TestStore_Events(t *testing.T) {
	ctx := context.Background()
	store, err := New(filepath.Join(t.TempDir(), "journal.bolt"))
	require.NoError(t, err)
	defer store.Close()

	sink := activity.SinkFunc(store.SaveEvent)
	require.NoError(t, sink.Save(ctx, activity.NewEvent(
		activity.WithType(activity.TypeParticipantAdded),
		activity.WithData(models.Participant{Name: "Alice"}),
		activity.WithMetadata("participant", "Alice"),
	)))
	require.NoError(t, sink.Save(ctx, activity.NewEvent(activity.WithType(activity.TypeExpenseCreated))))

	events, err := store.ListEventsByType(ctx, activity.TypeParticipantAdded)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Alice", events[0].Metadata["participant"])
	assert.Contains(t, string(events[0].Data.(json.RawMessage)), `"name":"Alice"`)
}
