// Package bolt provides a bbolt-backed implementation of the storage.Store interface.
// Every record kind lives in its own bucket, keyed by a big-endian sequence number so
// that cursor order is journal order.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/splitledger/internal/activity"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Bucket names.
const (
	BucketParticipants = "participants"
	BucketNames        = "participant_names"
	BucketExpenses     = "expenses"
	BucketSettlements  = "settlements"
	BucketEvents       = "events"
)

var _ storage.Store = (*Store)(nil)

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// New opens (or creates) the database at dbPath and initializes buckets.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{BucketParticipants, BucketNames, BucketExpenses, BucketSettlements, BucketEvents} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateParticipant stores the participant under the next sequence number.
func (s *Store) CreateParticipant(_ context.Context, participant *models.Participant) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		names := tx.Bucket([]byte(BucketNames))
		if names.Get([]byte(participant.Name)) != nil {
			return fmt.Errorf("participant %s: %w", participant.Name, storage.ErrConflict)
		}

		b := tx.Bucket([]byte(BucketParticipants))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := putJSON(b, itob(int64(seq)), participant); err != nil {
			return err
		}
		return names.Put([]byte(participant.Name), itob(int64(seq)))
	})
}

// ListParticipants returns participants in registration order.
func (s *Store) ListParticipants(_ context.Context) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketParticipants)).ForEach(func(_, v []byte) error {
			var p models.Participant
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("failed to unmarshal participant: %w", err)
			}
			participants = append(participants, p)
			return nil
		})
	})
	return participants, err
}

// CreateExpense stores the expense under its ID.
func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	return s.insert(BucketExpenses, expense.ID, expense)
}

// ListExpenses returns expenses ordered by ID.
func (s *Store) ListExpenses(_ context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketExpenses)).ForEach(func(_, v []byte) error {
			var e models.Expense
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal expense: %w", err)
			}
			expenses = append(expenses, e)
			return nil
		})
	})
	return expenses, err
}

// CreateSettlement stores the settlement under its ID.
func (s *Store) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	return s.insert(BucketSettlements, settlement.ID, settlement)
}

// ListSettlements returns settlements ordered by ID.
func (s *Store) ListSettlements(_ context.Context) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketSettlements)).ForEach(func(_, v []byte) error {
			var st models.Settlement
			if err := json.Unmarshal(v, &st); err != nil {
				return fmt.Errorf("failed to unmarshal settlement: %w", err)
			}
			settlements = append(settlements, st)
			return nil
		})
	})
	return settlements, err
}

// SaveEvent appends an activity event. It satisfies activity.SinkFunc.
func (s *Store) SaveEvent(_ context.Context, e activity.Event) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketEvents))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return putJSON(b, itob(int64(seq)), e)
	})
}

// ListEventsByType returns stored events of the given type, oldest first.
// Event data is returned as raw JSON.
func (s *Store) ListEventsByType(_ context.Context, eventType string) ([]activity.Event, error) {
	var events []activity.Event
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketEvents)).ForEach(func(_, v []byte) error {
			var raw struct {
				activity.Event
				Data json.RawMessage `json:"event_data,omitempty"`
			}
			if err := json.Unmarshal(v, &raw); err != nil {
				return fmt.Errorf("failed to unmarshal event: %w", err)
			}
			if raw.Type != eventType {
				return nil
			}
			e := raw.Event
			e.Data = raw.Data
			events = append(events, e)
			return nil
		})
	})
	return events, err
}

// insert stores value under id, refusing to overwrite an existing record.
func (s *Store) insert(bucketName string, id int64, value any) error {
	if id <= 0 {
		return fmt.Errorf("invalid %s id %d", bucketName, id)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b.Get(itob(id)) != nil {
			return fmt.Errorf("%s %d: %w", bucketName, id, storage.ErrConflict)
		}
		return putJSON(b, itob(id), value)
	})
}

func putJSON(b *bolt.Bucket, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put(key, data)
}

// itob converts an int64 to a byte slice for use as a bbolt key.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
