package calculator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Registry answers whether a name is a registered participant.
type Registry interface {
	Has(name string) bool
}

// NameSet is a Registry backed by a set of names.
type NameSet map[string]struct{}

// NewNameSet builds a NameSet from the given names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has implements Registry.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Split is the policy-specific input for dividing an expense.
// It is one of EqualSplit, ExactSplit or PercentageSplit.
type Split interface {
	Policy() models.SplitPolicy
	isSplit()
}

// EqualSplit divides the total evenly. It needs no input.
type EqualSplit struct{}

// ExactSplit assigns a fixed amount to every participant.
type ExactSplit struct {
	Amounts map[string]decimal.Decimal
}

// PercentageSplit assigns a percentage of the total to every participant.
type PercentageSplit struct {
	Percentages map[string]decimal.Decimal
}

func (EqualSplit) Policy() models.SplitPolicy      { return models.SplitEqual }
func (ExactSplit) Policy() models.SplitPolicy      { return models.SplitExact }
func (PercentageSplit) Policy() models.SplitPolicy { return models.SplitPercentage }

func (EqualSplit) isSplit()      {}
func (ExactSplit) isSplit()      {}
func (PercentageSplit) isSplit() {}

// ParseSplit builds a Split from a policy name and its per-participant values.
// An empty policy means equal. Values are ignored for the equal policy.
func ParseSplit(policy string, values map[string]decimal.Decimal) (Split, error) {
	switch models.SplitPolicy(strings.ToLower(strings.TrimSpace(policy))) {
	case "", models.SplitEqual:
		return EqualSplit{}, nil
	case models.SplitExact:
		return ExactSplit{Amounts: values}, nil
	case models.SplitPercentage:
		return PercentageSplit{Percentages: values}, nil
	default:
		return nil, &InvalidPolicyError{Policy: policy}
	}
}

// ComputeShares computes how much each participant owes for an expense of the given
// total paid by payer. Shares are returned in participant order.
//
// Validation happens before any computation: payer and participants must be
// registered, participants must be distinct and non-empty, and the total positive.
// No shares are returned on error.
func ComputeShares(reg Registry, payer string, total decimal.Decimal, participants []string, split Split) (models.Shares, error) {
	if !reg.Has(payer) {
		return nil, &UnknownParticipantError{Name: payer, Role: "payer"}
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if !reg.Has(p) {
			return nil, &UnknownParticipantError{Name: p, Role: "participant"}
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = struct{}{}
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: total is %s", ErrInvalidAmount, total)
	}

	switch s := split.(type) {
	case EqualSplit:
		return equalShares(total, participants), nil
	case ExactSplit:
		return exactShares(total, participants, s.Amounts)
	case PercentageSplit:
		return percentageShares(total, participants, s.Percentages)
	case nil:
		return nil, &InvalidPolicyError{}
	default:
		return nil, &InvalidPolicyError{Policy: string(split.Policy())}
	}
}

// equalShares gives every participant total/n. The remainder of the division is not
// redistributed, so shares may fall short of the total by a rounding residue.
func equalShares(total decimal.Decimal, participants []string) models.Shares {
	share := total.Div(decimal.NewFromInt(int64(len(participants))))
	shares := make(models.Shares, len(participants))
	for i, p := range participants {
		shares[i] = models.Share{Participant: p, Amount: share}
	}
	return shares
}

func exactShares(total decimal.Decimal, participants []string, amounts map[string]decimal.Decimal) (models.Shares, error) {
	if err := checkCoverage(models.SplitExact, participants, amounts); err != nil {
		return nil, err
	}

	shares := make(models.Shares, len(participants))
	sum := decimal.Zero
	for i, p := range participants {
		amount := amounts[p]
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s", ErrInvalidAmount, p, amount)
		}
		sum = sum.Add(amount)
		shares[i] = models.Share{Participant: p, Amount: amount}
	}
	if !sum.Equal(total) {
		return nil, &SplitMismatchError{Policy: models.SplitExact, Want: total, Got: sum}
	}
	return shares, nil
}

func percentageShares(total decimal.Decimal, participants []string, percentages map[string]decimal.Decimal) (models.Shares, error) {
	if err := checkCoverage(models.SplitPercentage, participants, percentages); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for _, p := range participants {
		pct := percentages[p]
		if pct.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s%%", ErrInvalidAmount, p, pct)
		}
		sum = sum.Add(pct)
	}
	if !sum.Equal(hundred) {
		return nil, &SplitMismatchError{Policy: models.SplitPercentage, Want: hundred, Got: sum}
	}

	shares := make(models.Shares, len(participants))
	for i, p := range participants {
		shares[i] = models.Share{
			Participant: p,
			Amount:      total.Mul(percentages[p]).Div(hundred),
		}
	}
	return shares, nil
}

// checkCoverage verifies that values has exactly one entry per participant.
func checkCoverage(policy models.SplitPolicy, participants []string, values map[string]decimal.Decimal) error {
	var missing, extra []string
	want := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		want[p] = struct{}{}
		if _, ok := values[p]; !ok {
			missing = append(missing, p)
		}
	}
	for name := range values {
		if _, ok := want[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return &SplitMismatchError{Policy: policy, Missing: missing, Extra: extra}
}
