// Package journal owns the append-only log of participants, expenses and settlements.
//
// Every append is validated, persisted through the injected storage.Store and only
// then added to memory. Balances are never stored: each query copies the log under
// the read lock and derives the debt graph outside it.
package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/activity"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	ErrEmptyName         = errors.New("participant name must not be empty")
	ErrParticipantExists = errors.New("participant already exists")
	ErrSelfSettlement    = errors.New("cannot settle with yourself")
)

// Record kinds reported to the Observer.
const (
	KindParticipant = "participant"
	KindExpense     = "expense"
	KindSettlement  = "settlement"
)

// Observer is notified about journal activity. Implementations must be safe for
// concurrent use.
type Observer interface {
	RecordAppended(kind string)
	BalancesDerived(elapsed time.Duration, debts int)
}

type nopObserver struct{}

func (nopObserver) RecordAppended(string)              {}
func (nopObserver) BalancesDerived(time.Duration, int) {}

// Journal is the single owner of the ledger history.
type Journal struct {
	store    storage.Store
	events   activity.Logger
	observer Observer
	now      func() time.Time

	mu           sync.RWMutex
	participants []models.Participant
	names        calculator.NameSet
	expenses     []models.Expense
	settlements  []models.Settlement
}

// Option configures a Journal.
type Option func(*Journal)

// WithEvents sends an activity event for every append.
func WithEvents(l activity.Logger) Option {
	return func(j *Journal) {
		j.events = l
	}
}

// WithObserver reports appends and derivations, typically to metrics.
func WithObserver(o Observer) Option {
	return func(j *Journal) {
		j.observer = o
	}
}

// WithClock overrides the time source used for CreatedAt and JoinedAt.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		j.now = now
	}
}

// Open loads the existing history from store and returns a Journal appending to it.
func Open(ctx context.Context, store storage.Store, opts ...Option) (*Journal, error) {
	j := &Journal{
		store:    store,
		events:   activity.Discard,
		observer: nopObserver{},
		now:      func() time.Time { return time.Now().UTC() },
		names:    calculator.NewNameSet(),
	}
	for _, opt := range opts {
		opt(j)
	}

	participants, err := store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	expenses, err := store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	settlements, err := store.ListSettlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}

	j.participants = participants
	for _, p := range participants {
		j.names[p.Name] = struct{}{}
	}
	j.expenses = expenses
	j.settlements = settlements

	slog.Info("Journal opened",
		"participants", len(participants),
		"expenses", len(expenses),
		"settlements", len(settlements),
	)
	return j, nil
}

// AddParticipant registers a new participant.
func (j *Journal) AddParticipant(ctx context.Context, name string) (models.Participant, error) {
	name = normalizeName(name)
	if name == "" {
		return models.Participant{}, ErrEmptyName
	}

	j.mu.Lock()
	if j.names.Has(name) {
		j.mu.Unlock()
		return models.Participant{}, fmt.Errorf("%w: %s", ErrParticipantExists, name)
	}

	p := models.Participant{Name: name, JoinedAt: j.now()}
	if err := j.store.CreateParticipant(ctx, &p); err != nil {
		j.mu.Unlock()
		if errors.Is(err, storage.ErrConflict) {
			return models.Participant{}, fmt.Errorf("%w: %s", ErrParticipantExists, name)
		}
		return models.Participant{}, fmt.Errorf("failed to save participant: %w", err)
	}
	j.participants = append(j.participants, p)
	j.names[name] = struct{}{}
	j.mu.Unlock()

	j.observer.RecordAppended(KindParticipant)
	j.events.Log(activity.NewEvent(
		activity.WithType(activity.TypeParticipantAdded),
		activity.WithData(p),
		activity.WithMetadata("participant", name),
	))
	return p, nil
}

// Participants returns the registered participants in registration order.
func (j *Journal) Participants() []models.Participant {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.participants)
}

// NewExpense is the input for CreateExpense and PreviewExpense.
type NewExpense struct {
	Description  string
	Amount       decimal.Decimal
	PaidBy       string
	Participants []string
	Split        calculator.Split
}

// PreviewExpense computes the shares CreateExpense would record, without recording.
func (j *Journal) PreviewExpense(in NewExpense) (models.Shares, error) {
	in = in.normalized()
	j.mu.RLock()
	defer j.mu.RUnlock()
	return calculator.ComputeShares(j.names, in.PaidBy, in.Amount, in.Participants, in.Split)
}

// CreateExpense validates and splits the expense, then appends it.
// On any error nothing is recorded.
func (j *Journal) CreateExpense(ctx context.Context, in NewExpense) (models.Expense, error) {
	in = in.normalized()
	j.mu.Lock()
	shares, err := calculator.ComputeShares(j.names, in.PaidBy, in.Amount, in.Participants, in.Split)
	if err != nil {
		j.mu.Unlock()
		return models.Expense{}, err
	}

	expense := models.Expense{
		ID:           int64(len(j.expenses)) + 1,
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		PaidBy:       in.PaidBy,
		Participants: slices.Clone(in.Participants),
		Policy:       in.Split.Policy(),
		Shares:       shares,
		CreatedAt:    j.now(),
	}
	if err := j.store.CreateExpense(ctx, &expense); err != nil {
		j.mu.Unlock()
		return models.Expense{}, fmt.Errorf("failed to save expense: %w", err)
	}
	j.expenses = append(j.expenses, expense)
	j.mu.Unlock()

	j.observer.RecordAppended(KindExpense)
	j.events.Log(activity.NewEvent(
		activity.WithType(activity.TypeExpenseCreated),
		activity.WithData(expense),
		activity.WithMetadata("expense_id", strconv.FormatInt(expense.ID, 10)),
		activity.WithMetadata("paid_by", expense.PaidBy),
	))
	return expense, nil
}

// Expenses returns all expenses in creation order.
func (j *Journal) Expenses() []models.Expense {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.expenses)
}

// normalizeName is applied to every name before it is registered or looked up.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func (in NewExpense) normalized() NewExpense {
	out := in
	out.PaidBy = normalizeName(in.PaidBy)
	if in.Participants != nil {
		out.Participants = make([]string, len(in.Participants))
		for i, p := range in.Participants {
			out.Participants[i] = normalizeName(p)
		}
	}
	switch split := in.Split.(type) {
	case calculator.ExactSplit:
		out.Split = calculator.ExactSplit{Amounts: normalizeKeys(split.Amounts)}
	case calculator.PercentageSplit:
		out.Split = calculator.PercentageSplit{Percentages: normalizeKeys(split.Percentages)}
	}
	return out
}

// normalizeKeys returns values unchanged when two keys collapse to the same
// name, so the coverage check still rejects them.
func normalizeKeys(values map[string]decimal.Decimal) map[string]decimal.Decimal {
	if values == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(values))
	for name, v := range values {
		key := normalizeName(name)
		if _, dup := out[key]; dup {
			return values
		}
		out[key] = v
	}
	return out
}

// NewSettlement is the input for RecordSettlement.
type NewSettlement struct {
	From   string
	To     string
	Amount decimal.Decimal
	Note   string
}

// RecordSettlement appends a payment from one participant to another.
// The amount is not checked against the current debt; paying more than owed
// leaves the receiver owing the difference.
func (j *Journal) RecordSettlement(ctx context.Context, in NewSettlement) (models.Settlement, error) {
	in.From = normalizeName(in.From)
	in.To = normalizeName(in.To)
	if !in.Amount.IsPositive() {
		return models.Settlement{}, calculator.ErrInvalidAmount
	}
	if in.From == in.To {
		return models.Settlement{}, ErrSelfSettlement
	}

	j.mu.Lock()
	if !j.names.Has(in.From) {
		j.mu.Unlock()
		return models.Settlement{}, &calculator.UnknownParticipantError{Name: in.From, Role: "payer"}
	}
	if !j.names.Has(in.To) {
		j.mu.Unlock()
		return models.Settlement{}, &calculator.UnknownParticipantError{Name: in.To, Role: "receiver"}
	}

	settlement := models.Settlement{
		ID:        int64(len(j.settlements)) + 1,
		From:      in.From,
		To:        in.To,
		Amount:    in.Amount,
		Note:      strings.TrimSpace(in.Note),
		CreatedAt: j.now(),
	}
	if err := j.store.CreateSettlement(ctx, &settlement); err != nil {
		j.mu.Unlock()
		return models.Settlement{}, fmt.Errorf("failed to save settlement: %w", err)
	}
	j.settlements = append(j.settlements, settlement)
	j.mu.Unlock()

	j.observer.RecordAppended(KindSettlement)
	j.events.Log(activity.NewEvent(
		activity.WithType(activity.TypeSettlementRecorded),
		activity.WithData(settlement),
		activity.WithMetadata("settlement_id", strconv.FormatInt(settlement.ID, 10)),
		activity.WithMetadata("from", settlement.From),
		activity.WithMetadata("to", settlement.To),
	))
	return settlement, nil
}

// Settlements returns all settlements in creation order.
func (j *Journal) Settlements() []models.Settlement {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.settlements)
}

// Snapshot is a point-in-time copy of the journal.
type Snapshot struct {
	Participants []models.Participant
	Expenses     []models.Expense
	Settlements  []models.Settlement
}

// Snapshot copies the whole log under the read lock.
// Records are immutable, so sharing their inner slices is safe.
func (j *Journal) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return Snapshot{
		Participants: slices.Clone(j.participants),
		Expenses:     slices.Clone(j.expenses),
		Settlements:  slices.Clone(j.settlements),
	}
}

// Balances derives the simplified debt graph from the current history.
func (j *Journal) Balances() calculator.Balances {
	snap := j.Snapshot()

	start := time.Now()
	balances := calculator.DeriveBalances(
		models.ParticipantNames(snap.Participants),
		snap.Expenses,
		snap.Settlements,
	)
	j.observer.BalancesDerived(time.Since(start), balances.Len())
	return balances
}
