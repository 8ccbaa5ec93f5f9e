package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitPolicy names the rule used to divide an expense among its participants.
type SplitPolicy string

const (
	SplitEqual      SplitPolicy = "equal"
	SplitExact      SplitPolicy = "exact"
	SplitPercentage SplitPolicy = "percentage"
)

// Expense is a purchase paid by one participant and shared among several.
// Expenses are immutable once created.
type Expense struct {
	// ID is the sequential identifier of the expense, starting at 1.
	ID int64 `json:"id" yaml:"id"`

	// Description is free text (e.g., "Groceries", "Taxi to airport").
	Description string `json:"description" yaml:"description"`

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal `json:"amount" yaml:"amount"`

	// PaidBy is the participant who paid the full amount.
	PaidBy string `json:"paid_by" yaml:"paid_by"`

	// Participants are the people the expense is split among, in the order given
	// at creation. The payer may or may not be one of them.
	Participants []string `json:"participants" yaml:"participants"`

	// Policy is the split rule the shares were computed with.
	Policy SplitPolicy `json:"split_type" yaml:"split_type"`

	// Shares is the computed amount owed by each participant.
	// Shares sum to Amount within the balance tolerance.
	Shares Shares `json:"shares" yaml:"shares"`

	// CreatedAt is when the expense was recorded.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Share is one participant's portion of an expense.
type Share struct {
	Participant string          `json:"participant" yaml:"participant"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
}

// Shares is an ordered participant -> amount mapping.
type Shares []Share

// Total returns the sum of all shares.
func (s Shares) Total() decimal.Decimal {
	total := decimal.Zero
	for _, share := range s {
		total = total.Add(share.Amount)
	}
	return total
}

// Of returns the share of the given participant and whether one exists.
func (s Shares) Of(participant string) (decimal.Decimal, bool) {
	for _, share := range s {
		if share.Participant == participant {
			return share.Amount, true
		}
	}
	return decimal.Zero, false
}

// Map returns the shares keyed by participant.
func (s Shares) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s))
	for _, share := range s {
		m[share.Participant] = share.Amount
	}
	return m
}
