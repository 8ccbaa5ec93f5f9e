package calculator

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Tolerance is the amount at or below which a balance is treated as settled.
// It absorbs the rounding residue left by equal splits.
var Tolerance = decimal.New(1, -2)

// Pair identifies a directed debt: From owes To.
type Pair struct {
	From string
	To   string
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// MemberStatus summarizes a member's position over the simplified debts.
type MemberStatus string

const (
	StatusSettled  MemberStatus = "settled"
	StatusGetsBack MemberStatus = "gets_back"
	StatusOwes     MemberStatus = "owes"
)

// MemberBalance represents the balance information for one participant.
type MemberBalance struct {
	Name       string
	NetBalance decimal.Decimal // Positive = gets money back, Negative = owes money
	Receivable decimal.Decimal // Sum of debts owed to this member
	Payable    decimal.Decimal // Sum of debts this member owes
}

// Status classifies the member's net balance using Tolerance.
func (m MemberBalance) Status() MemberStatus {
	switch {
	case m.NetBalance.Abs().LessThanOrEqual(Tolerance):
		return StatusSettled
	case m.NetBalance.IsPositive():
		return StatusGetsBack
	default:
		return StatusOwes
	}
}

// Balances is the simplified debt graph derived from a journal.
// It never holds both directions of a pair, nor an amount at or below Tolerance.
type Balances struct {
	debts        map[Pair]decimal.Decimal
	participants []string
}

// DeriveBalances computes who owes whom from the full expense and settlement history.
//
// Algorithm:
//   - For each expense: every non-payer participant owes the payer their share
//   - For each settlement: the payer's debt toward the receiver shrinks by the amount
//   - For each pair of people: the two opposing debts are netted into at most one
//     directed debt, dropped when within Tolerance of zero
//
// A settlement larger than the debt it pays flips the pair into a reverse debt.
// Names that appear in records but not in participants are kept as ordinary labels.
func DeriveBalances(participants []string, expenses []models.Expense, settlements []models.Settlement) Balances {
	// ledger[Pair{a, b}] = raw amount a owes b
	ledger := make(map[Pair]decimal.Decimal)

	for _, expense := range expenses {
		for _, share := range expense.Shares {
			if share.Participant == expense.PaidBy {
				continue
			}
			key := Pair{From: share.Participant, To: expense.PaidBy}
			ledger[key] = ledger[key].Add(share.Amount)
		}
	}

	for _, s := range settlements {
		key := Pair{From: s.From, To: s.To}
		ledger[key] = ledger[key].Sub(s.Amount)
	}

	debts := make(map[Pair]decimal.Decimal)
	visited := make(map[Pair]bool, len(ledger))
	for key := range ledger {
		if key.From == key.To {
			continue
		}
		canonical := key
		if canonical.From > canonical.To {
			canonical = Pair{From: key.To, To: key.From}
		}
		if visited[canonical] {
			continue
		}
		visited[canonical] = true

		a, b := canonical.From, canonical.To
		net := ledger[Pair{From: a, To: b}].Sub(ledger[Pair{From: b, To: a}])
		switch {
		case net.GreaterThan(Tolerance):
			debts[Pair{From: a, To: b}] = net
		case net.LessThan(Tolerance.Neg()):
			debts[Pair{From: b, To: a}] = net.Neg()
		}
	}

	return Balances{
		debts:        debts,
		participants: slices.Clone(participants),
	}
}

// Len returns the number of outstanding debts.
func (b Balances) Len() int {
	return len(b.debts)
}

// IsSettled reports whether nobody owes anybody.
func (b Balances) IsSettled() bool {
	return len(b.debts) == 0
}

// Amount returns how much from owes to, and whether such a debt exists.
func (b Balances) Amount(from, to string) (decimal.Decimal, bool) {
	amount, ok := b.debts[Pair{From: from, To: to}]
	return amount, ok
}

// Map returns a copy of the debts keyed by pair.
func (b Balances) Map() map[Pair]decimal.Decimal {
	m := make(map[Pair]decimal.Decimal, len(b.debts))
	for k, v := range b.debts {
		m[k] = v
	}
	return m
}

// Edges returns the debts sorted by debtor, then creditor.
func (b Balances) Edges() []DebtEdge {
	edges := make([]DebtEdge, 0, len(b.debts))
	for pair, amount := range b.debts {
		edges = append(edges, DebtEdge{From: pair.From, To: pair.To, Amount: amount})
	}
	slices.SortFunc(edges, func(x, y DebtEdge) int {
		if c := cmp.Compare(x.From, y.From); c != 0 {
			return c
		}
		return cmp.Compare(x.To, y.To)
	})
	return edges
}

// Members returns one balance per participant, in participant order, computed from
// the simplified debts. Names that only appear in records come last, sorted.
func (b Balances) Members() []MemberBalance {
	index := make(map[string]int, len(b.participants))
	members := make([]MemberBalance, 0, len(b.participants))
	add := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(members)
		members = append(members, MemberBalance{Name: name})
		return index[name]
	}
	for _, p := range b.participants {
		add(p)
	}

	var orphans []string
	for pair := range b.debts {
		for _, name := range []string{pair.From, pair.To} {
			if _, ok := index[name]; !ok && !slices.Contains(orphans, name) {
				orphans = append(orphans, name)
			}
		}
	}
	slices.Sort(orphans)
	for _, name := range orphans {
		add(name)
	}

	for pair, amount := range b.debts {
		debtor := &members[index[pair.From]]
		debtor.Payable = debtor.Payable.Add(amount)
		creditor := &members[index[pair.To]]
		creditor.Receivable = creditor.Receivable.Add(amount)
	}
	for i := range members {
		members[i].NetBalance = members[i].Receivable.Sub(members[i].Payable)
	}
	return members
}
