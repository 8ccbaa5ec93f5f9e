package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNoParticipants       = errors.New("must have at least one participant")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
)

// UnknownParticipantError is returned when an expense references a name that is not
// registered in the ledger.
type UnknownParticipantError struct {
	Name string
	Role string // "payer" or "participant"
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Role, e.Name)
}

// InvalidPolicyError is returned for a split policy other than equal, exact or percentage.
type InvalidPolicyError struct {
	Policy string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid split policy '%s' (want equal, exact or percentage)", e.Policy)
}

// SplitMismatchError is returned when exact amounts or percentages do not reconcile
// with the expense total, or do not cover exactly the expense participants.
type SplitMismatchError struct {
	Policy models.SplitPolicy
	Want   decimal.Decimal
	Got    decimal.Decimal

	// Missing lists participants without an input.
	Missing []string
	// Extra lists inputs given for names that are not participants of the expense.
	Extra []string
}

func (e *SplitMismatchError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s split: no value given for %s", e.Policy, strings.Join(e.Missing, ", "))
	case len(e.Extra) > 0:
		return fmt.Sprintf("%s split: value given for non-participant %s", e.Policy, strings.Join(e.Extra, ", "))
	case e.Policy == models.SplitPercentage:
		return fmt.Sprintf("percentages add up to %s, want %s", e.Got, e.Want)
	default:
		return fmt.Sprintf("exact amounts add up to %s, want %s", e.Got, e.Want)
	}
}

// IsValidation reports whether err is one of the expense validation errors.
// Validation errors indicate malformed input and are never worth retrying.
func IsValidation(err error) bool {
	var (
		unknown  *UnknownParticipantError
		policy   *InvalidPolicyError
		mismatch *SplitMismatchError
	)
	return errors.As(err, &unknown) ||
		errors.As(err, &policy) ||
		errors.As(err, &mismatch) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNoParticipants) ||
		errors.Is(err, ErrDuplicateParticipant)
}
