// Package app wires configuration, storage, the activity worker and the journal
// into one value shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/splitledger/internal/activity"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/journal"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/bolt"
	"github.com/mmynk/splitledger/internal/storage/memory"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

// App holds the running journal and the resources behind it.
type App struct {
	Journal *journal.Journal
	store   storage.Store
	worker  *activity.Worker
}

// OpenStore opens the configured backend and returns it with the sink its
// activity events should go to.
func OpenStore(cfg *config.Config) (storage.Store, activity.Sink, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, activity.SinkFunc(store.SaveEvent), nil
	case config.StoreBolt:
		store, err := bolt.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, activity.SinkFunc(store.SaveEvent), nil
	case config.StoreMemory:
		return memory.New(), activity.SlogSink, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}

// Open starts the activity worker and loads the journal. Extra options are
// applied after the events option.
func Open(ctx context.Context, cfg *config.Config, opts ...journal.Option) (*App, error) {
	store, sink, err := OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	slog.Info("Storage initialized", "store", cfg.Store, "database", cfg.DBPath)

	worker := activity.NewWorker(sink, cfg.EventBuffer)
	worker.Start()

	opts = append([]journal.Option{journal.WithEvents(worker)}, opts...)
	j, err := journal.Open(ctx, store, opts...)
	if err != nil {
		worker.Shutdown()
		store.Close()
		return nil, err
	}

	return &App{Journal: j, store: store, worker: worker}, nil
}

// Close flushes pending events, then closes the store.
func (a *App) Close() error {
	a.worker.Shutdown()
	if err := a.store.Close(); err != nil {
		return errors.Join(errors.New("failed to close store"), err)
	}
	return nil
}
