// Package ledgerv1 defines the splitledger.v1.LedgerService RPC contract: message types,
// the JSON codec they travel with, and Connect handler and client constructors.
package ledgerv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts are decimal strings on the wire ("12.50"), never floats.

type Participant struct {
	Name     string    `json:"name" yaml:"name"`
	JoinedAt time.Time `json:"joined_at" yaml:"joined_at"`
}

type Share struct {
	Participant string          `json:"participant" yaml:"participant"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
}

type Expense struct {
	ID           int64           `json:"id" yaml:"id"`
	Description  string          `json:"description" yaml:"description"`
	Amount       decimal.Decimal `json:"amount" yaml:"amount"`
	PaidBy       string          `json:"paid_by" yaml:"paid_by"`
	Participants []string        `json:"participants" yaml:"participants"`
	SplitType    string          `json:"split_type" yaml:"split_type"`
	Shares       []Share         `json:"shares" yaml:"shares"`
	CreatedAt    time.Time       `json:"created_at" yaml:"created_at"`
}

type Settlement struct {
	ID        int64           `json:"id" yaml:"id"`
	From      string          `json:"from" yaml:"from"`
	To        string          `json:"to" yaml:"to"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Note      string          `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// Debt is one simplified balance entry: From owes To.
type Debt struct {
	From   string          `json:"from" yaml:"from"`
	To     string          `json:"to" yaml:"to"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// MemberBalance is a participant's net position. Status is "gets_back", "owes" or "settled".
type MemberBalance struct {
	Name       string          `json:"name" yaml:"name"`
	NetBalance decimal.Decimal `json:"net_balance" yaml:"net_balance"`
	Status     string          `json:"status" yaml:"status"`
}

type AddParticipantRequest struct {
	Name string `json:"name" yaml:"name"`
}

type AddParticipantResponse struct {
	Participant Participant `json:"participant" yaml:"participant"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []Participant `json:"participants" yaml:"participants"`
}

// PreviewSplitRequest computes shares without recording an expense.
// SplitType is "equal" (default), "exact" or "percentage"; Values holds the
// per-participant amounts or percentages for the latter two.
type PreviewSplitRequest struct {
	Amount       decimal.Decimal            `json:"amount" yaml:"amount"`
	PaidBy       string                     `json:"paid_by" yaml:"paid_by"`
	Participants []string                   `json:"participants" yaml:"participants"`
	SplitType    string                     `json:"split_type,omitempty" yaml:"split_type,omitempty"`
	Values       map[string]decimal.Decimal `json:"values,omitempty" yaml:"values,omitempty"`
}

type PreviewSplitResponse struct {
	Shares []Share `json:"shares" yaml:"shares"`
}

type CreateExpenseRequest struct {
	Description  string                     `json:"description" yaml:"description"`
	Amount       decimal.Decimal            `json:"amount" yaml:"amount"`
	PaidBy       string                     `json:"paid_by" yaml:"paid_by"`
	Participants []string                   `json:"participants" yaml:"participants"`
	SplitType    string                     `json:"split_type,omitempty" yaml:"split_type,omitempty"`
	Values       map[string]decimal.Decimal `json:"values,omitempty" yaml:"values,omitempty"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense" yaml:"expense"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses" yaml:"expenses"`
}

type RecordSettlementRequest struct {
	From   string          `json:"from" yaml:"from"`
	To     string          `json:"to" yaml:"to"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
	Note   string          `json:"note,omitempty" yaml:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement Settlement `json:"settlement" yaml:"settlement"`
}

type ListSettlementsRequest struct{}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements" yaml:"settlements"`
}

type GetBalancesRequest struct{}

// GetBalancesResponse lists debts sorted by debtor then creditor, and one
// MemberBalance per participant in registration order.
type GetBalancesResponse struct {
	Debts   []Debt          `json:"debts" yaml:"debts"`
	Members []MemberBalance `json:"members" yaml:"members"`
	Settled bool            `json:"settled" yaml:"settled"`
}
