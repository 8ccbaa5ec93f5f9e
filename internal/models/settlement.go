package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement represents a payment between participants to clear debts.
type Settlement struct {
	// ID is the sequential identifier of the settlement, starting at 1.
	ID int64 `json:"id" yaml:"id"`

	// From is the participant who paid (debtor settling up).
	From string `json:"from" yaml:"from"`

	// To is the participant who received the payment (creditor being paid).
	To string `json:"to" yaml:"to"`

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal `json:"amount" yaml:"amount"`

	// Note is an optional description for the settlement.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// CreatedAt is when the settlement was recorded.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
