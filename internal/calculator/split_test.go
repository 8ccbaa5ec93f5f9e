package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeShares(t *testing.T) {
	reg := NewNameSet("Alice", "Bob", "Charlie")

	tests := []struct {
		name         string
		payer        string
		total        decimal.Decimal
		participants []string
		split        Split
		wantErr      bool
		validateFunc func(t *testing.T, shares models.Shares, err error)
	}{
		{
			name:         "equal split between two",
			payer:        "Alice",
			total:        d("100"),
			participants: []string{"Alice", "Bob"},
			split:        EqualSplit{},
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				for _, p := range []string{"Alice", "Bob"} {
					got, ok := shares.Of(p)
					if !ok || !got.Equal(d("50")) {
						t.Errorf("%s share = %v, want 50", p, got)
					}
				}
			},
		},
		{
			name:         "equal split keeps participant order",
			payer:        "Bob",
			total:        d("90"),
			participants: []string{"Charlie", "Alice", "Bob"},
			split:        EqualSplit{},
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				want := []string{"Charlie", "Alice", "Bob"}
				for i, share := range shares {
					if share.Participant != want[i] {
						t.Errorf("share %d participant = %s, want %s", i, share.Participant, want[i])
					}
					if !share.Amount.Equal(d("30")) {
						t.Errorf("share %d amount = %v, want 30", i, share.Amount)
					}
				}
			},
		},
		{
			name:         "equal split does not redistribute the remainder",
			payer:        "Alice",
			total:        d("100"),
			participants: []string{"Alice", "Bob", "Charlie"},
			split:        EqualSplit{},
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				first := shares[0].Amount
				for _, share := range shares {
					if !share.Amount.Equal(first) {
						t.Errorf("shares differ: %v vs %v", share.Amount, first)
					}
				}
				residue := d("100").Sub(shares.Total())
				if residue.IsNegative() || residue.GreaterThan(Tolerance) {
					t.Errorf("residue = %v, want within [0, %v]", residue, Tolerance)
				}
			},
		},
		{
			name:         "payer outside the split",
			payer:        "Charlie",
			total:        d("40"),
			participants: []string{"Alice", "Bob"},
			split:        EqualSplit{},
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				if _, ok := shares.Of("Charlie"); ok {
					t.Error("payer should not get a share when not a participant")
				}
				if !shares.Total().Equal(d("40")) {
					t.Errorf("total = %v, want 40", shares.Total())
				}
			},
		},
		{
			name:         "exact split",
			payer:        "Alice",
			total:        d("100.00"),
			participants: []string{"Alice", "Bob"},
			split:        ExactSplit{Amounts: map[string]decimal.Decimal{"Alice": d("70.50"), "Bob": d("29.50")}},
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				bob, _ := shares.Of("Bob")
				if !bob.Equal(d("29.50")) {
					t.Errorf("Bob share = %v, want 29.50", bob)
				}
			},
		},
		{
			name:         "exact amounts one cent short",
			payer:        "Alice",
			total:        d("100.00"),
			participants: []string{"Alice", "Bob"},
			split:        ExactSplit{Amounts: map[string]decimal.Decimal{"Alice": d("50.00"), "Bob": d("49.99")}},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				var mismatch *SplitMismatchError
				if !errors.As(err, &mismatch) {
					t.Fatalf("error = %v, want SplitMismatchError", err)
				}
				if !mismatch.Got.Equal(d("99.99")) {
					t.Errorf("mismatch.Got = %v, want 99.99", mismatch.Got)
				}
			},
		},
		{
			name:         "exact amounts missing a participant",
			payer:        "Alice",
			total:        d("10"),
			participants: []string{"Alice", "Bob"},
			split:        ExactSplit{Amounts: map[string]decimal.Decimal{"Alice": d("10")}},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				var mismatch *SplitMismatchError
				if !errors.As(err, &mismatch) || len(mismatch.Missing) != 1 || mismatch.Missing[0] != "Bob" {
					t.Errorf("error = %v, want mismatch missing Bob", err)
				}
			},
		},
		{
			name:         "exact amounts for a non-participant",
			payer:        "Alice",
			total:        d("10"),
			participants: []string{"Alice"},
			split:        ExactSplit{Amounts: map[string]decimal.Decimal{"Alice": d("5"), "Bob": d("5")}},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				var mismatch *SplitMismatchError
				if !errors.As(err, &mismatch) || len(mismatch.Extra) != 1 {
					t.Errorf("error = %v, want mismatch with extra Bob", err)
				}
			},
		},
		{
			name:         "negative exact amount",
			payer:        "Alice",
			total:        d("10"),
			participants: []string{"Alice", "Bob"},
			split:        ExactSplit{Amounts: map[string]decimal.Decimal{"Alice": d("15"), "Bob": d("-5")}},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("error = %v, want ErrInvalidAmount", err)
				}
			},
		},
		{
			name:         "percentage split",
			payer:        "Bob",
			total:        d("80"),
			participants: []string{"Alice", "Bob"},
			split:        PercentageSplit{Percentages: map[string]decimal.Decimal{"Alice": d("25"), "Bob": d("75")}},
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				alice, _ := shares.Of("Alice")
				bob, _ := shares.Of("Bob")
				if !alice.Equal(d("20")) || !bob.Equal(d("60")) {
					t.Errorf("shares = %v/%v, want 20/60", alice, bob)
				}
			},
		},
		{
			name:         "percentages over 100",
			payer:        "Alice",
			total:        d("100"),
			participants: []string{"Alice", "Bob"},
			split:        PercentageSplit{Percentages: map[string]decimal.Decimal{"Alice": d("60"), "Bob": d("41")}},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				var mismatch *SplitMismatchError
				if !errors.As(err, &mismatch) {
					t.Fatalf("error = %v, want SplitMismatchError", err)
				}
				if mismatch.Policy != models.SplitPercentage || !mismatch.Got.Equal(d("101")) {
					t.Errorf("mismatch = %+v", mismatch)
				}
			},
		},
		{
			name:         "unknown payer",
			payer:        "Mallory",
			total:        d("10"),
			participants: []string{"Alice"},
			split:        EqualSplit{},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				var unknown *UnknownParticipantError
				if !errors.As(err, &unknown) || unknown.Name != "Mallory" || unknown.Role != "payer" {
					t.Errorf("error = %v, want unknown payer Mallory", err)
				}
			},
		},
		{
			name:         "unknown participant",
			payer:        "Alice",
			total:        d("10"),
			participants: []string{"Alice", "Eve"},
			split:        EqualSplit{},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				var unknown *UnknownParticipantError
				if !errors.As(err, &unknown) || unknown.Name != "Eve" {
					t.Errorf("error = %v, want unknown participant Eve", err)
				}
			},
		},
		{
			name:         "duplicate participant",
			payer:        "Alice",
			total:        d("10"),
			participants: []string{"Alice", "Bob", "Alice"},
			split:        EqualSplit{},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				if !errors.Is(err, ErrDuplicateParticipant) {
					t.Errorf("error = %v, want ErrDuplicateParticipant", err)
				}
			},
		},
		{
			name:         "no participants",
			payer:        "Alice",
			total:        d("10"),
			participants: nil,
			split:        EqualSplit{},
			wantErr:      true,
		},
		{
			name:         "zero total",
			payer:        "Alice",
			total:        decimal.Zero,
			participants: []string{"Alice"},
			split:        EqualSplit{},
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("error = %v, want ErrInvalidAmount", err)
				}
			},
		},
		{
			name:         "nil split",
			payer:        "Alice",
			total:        d("10"),
			participants: []string{"Alice"},
			split:        nil,
			wantErr:      true,
			validateFunc: func(t *testing.T, shares models.Shares, err error) {
				var policy *InvalidPolicyError
				if !errors.As(err, &policy) {
					t.Errorf("error = %v, want InvalidPolicyError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeShares(reg, tt.payer, tt.total, tt.participants, tt.split)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeShares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && shares != nil {
				t.Errorf("expected no shares on error, got %v", shares)
			}
			if !tt.wantErr {
				// share-sum invariant
				if diff := tt.total.Sub(shares.Total()).Abs(); diff.GreaterThan(Tolerance) {
					t.Errorf("shares sum to %v, want %v", shares.Total(), tt.total)
				}
			}
			if tt.wantErr && !IsValidation(err) {
				t.Errorf("IsValidation(%v) = false", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares, err)
			}
		})
	}
}

func TestParseSplit(t *testing.T) {
	values := map[string]decimal.Decimal{"Alice": d("1")}

	tests := []struct {
		policy  string
		want    models.SplitPolicy
		wantErr bool
	}{
		{policy: "", want: models.SplitEqual},
		{policy: "equal", want: models.SplitEqual},
		{policy: " Exact ", want: models.SplitExact},
		{policy: "PERCENTAGE", want: models.SplitPercentage},
		{policy: "shares", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			split, err := ParseSplit(tt.policy, values)
			if tt.wantErr {
				var policy *InvalidPolicyError
				if !errors.As(err, &policy) {
					t.Fatalf("ParseSplit(%q) error = %v, want InvalidPolicyError", tt.policy, err)
				}
				if policy.Policy != tt.policy {
					t.Errorf("policy = %q, want %q", policy.Policy, tt.policy)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSplit(%q) error = %v", tt.policy, err)
			}
			if split.Policy() != tt.want {
				t.Errorf("Policy() = %s, want %s", split.Policy(), tt.want)
			}
		})
	}
}
