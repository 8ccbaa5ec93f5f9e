package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/activity"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/journal"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

func testConfig(t *testing.T, store string) *config.Config {
	return &config.Config{
		Store:       store,
		DBPath:      filepath.Join(t.TempDir(), "ledger.db"),
		Port:        8080,
		LogLevel:    "info",
		LogFormat:   "text",
		EventBuffer: 10,
	}
}

func TestOpen_Backends(t *testing.T) {
	for _, store := range []string{config.StoreSQLite, config.StoreBolt, config.StoreMemory} {
		t.Run(store, func(t *testing.T) {
			ctx := context.Background()
			a, err := Open(ctx, testConfig(t, store))
			require.NoError(t, err)

			_, err = a.Journal.AddParticipant(ctx, "Alice")
			require.NoError(t, err)
			_, err = a.Journal.AddParticipant(ctx, "Bob")
			require.NoError(t, err)
			_, err = a.Journal.CreateExpense(ctx, journal.NewExpense{
				Description:  "Lunch",
				Amount:       decimal.NewFromInt(20),
				PaidBy:       "Alice",
				Participants: []string{"Alice", "Bob"},
				Split:        calculator.EqualSplit{},
			})
			require.NoError(t, err)

			amount, ok := a.Journal.Balances().Amount("Bob", "Alice")
			require.True(t, ok)
			assert.True(t, amount.Equal(decimal.NewFromInt(10)))
			require.NoError(t, a.Close())
		})
	}
}

func TestOpen_ReloadsDurableStores(t *testing.T) {
	for _, store := range []string{config.StoreSQLite, config.StoreBolt} {
		t.Run(store, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, store)

			first, err := Open(ctx, cfg)
			require.NoError(t, err)
			_, err = first.Journal.AddParticipant(ctx, "Alice")
			require.NoError(t, err)
			require.NoError(t, first.Close())

			second, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer second.Close()
			assert.Len(t, second.Journal.Participants(), 1)
		})
	}
}

func TestOpen_EventsReachSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.StoreSQLite)

	a, err := Open(ctx, cfg)
	require.NoError(t, err)
	_, err = a.Journal.AddParticipant(ctx, "Alice")
	require.NoError(t, err)
	// Close drains the worker before the store goes away.
	require.NoError(t, a.Close())

	store, err := sqlite.New(cfg.DBPath)
	require.NoError(t, err)
	defer store.Close()

	events, err := store.ListEventsByType(ctx, activity.TypeParticipantAdded)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Alice", events[0].Metadata["participant"])
}

func TestOpenStore_Unsupported(t *testing.T) {
	_, _, err := OpenStore(&config.Config{Store: "postgres"})
	assert.Error(t, err)
}
