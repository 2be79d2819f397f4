package split

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Policy defines how an expense total is divided among members
type Policy string

const (
	PolicyEqual      Policy = "EQUAL"
	PolicyExact      Policy = "EXACT"
	PolicyPercentage Policy = "PERCENTAGE"
)

// Policies lists every supported policy in display order
var Policies = []Policy{PolicyEqual, PolicyExact, PolicyPercentage}

// ParsePolicy resolves a policy name, ignoring case and surrounding spaces
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Policies {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Remainder decides where the rounding residue of EQUAL splits goes
type Remainder string

const (
	// RemainderToPayer folds total - sum(owed) into the payer's share
	RemainderToPayer Remainder = "payer"
	// RemainderNone leaves each share rounded on its own
	RemainderNone Remainder = "none"
)

// ParseRemainder resolves a remainder policy name
func ParseRemainder(s string) (Remainder, error) {
	switch r := Remainder(strings.ToLower(strings.TrimSpace(s))); r {
	case RemainderToPayer, RemainderNone:
		return r, nil
	default:
		return "", fmt.Errorf("unknown remainder policy: %q", s)
	}
}

// Input is everything a strategy needs to divide one expense
type Input struct {
	Total   decimal.Decimal
	Payer   string
	Members []string // participants, in display order
	Group   []string // full group membership; Members is used when empty
	Values  map[string]RawValue
}

// Share is the amount one member owes for an expense
type Share struct {
	MemberID string          `json:"member_id"`
	Owed     decimal.Decimal `json:"owed"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes the owed amount for every participant
	Calculate(in Input) ([]Share, error)

	// Type returns the policy this strategy implements
	Type() Policy

	// Validate checks if the inputs are valid for this strategy
	Validate(in Input) error
}

// Factory creates split strategies based on the requested policy
type Factory struct {
	remainder Remainder
}

// NewSplitStrategyFactory creates a factory. remainder applies to EQUAL splits.
func NewSplitStrategyFactory(remainder Remainder) *Factory {
	if remainder == "" {
		remainder = RemainderToPayer
	}
	return &Factory{remainder: remainder}
}

// Create returns the appropriate strategy implementation based on the policy
func (f *Factory) Create(policy Policy) (Strategy, error) {
	switch policy {
	case PolicyEqual:
		return &EqualStrategy{remainder: f.remainder}, nil
	case PolicyExact:
		return &ExactStrategy{}, nil
	case PolicyPercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

// CreateFromString creates a strategy from a string policy (useful for API requests)
func (f *Factory) CreateFromString(policy string) (Strategy, error) {
	p, err := ParsePolicy(policy)
	if err != nil {
		return nil, err
	}
	return f.Create(p)
}

// Compute divides in.Total under policy. It never returns partial shares.
func (f *Factory) Compute(policy Policy, in Input) ([]Share, error) {
	strategy, err := f.Create(policy)
	if err != nil {
		return nil, err
	}
	return strategy.Calculate(in)
}

// Sum adds up the owed amounts of shares
func Sum(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Owed)
	}
	return total
}

var (
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.New(1, -2)
)

// round2 rounds half away from zero at two decimal places
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// withinTolerance reports |a - b| <= 0.01
func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// validateCommon applies the checks every policy shares. A total that
// rounds to zero cents is not positive.
func validateCommon(in Input) error {
	if round2(in.Total).Sign() <= 0 {
		return ErrInvalidAmount
	}
	if len(in.Members) == 0 {
		return ErrNoMembers
	}

	seen := make(map[string]struct{}, len(in.Members))
	for _, m := range in.Members {
		if _, dup := seen[m]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, m)
		}
		seen[m] = struct{}{}
	}

	group := seen
	if len(in.Group) > 0 {
		group = make(map[string]struct{}, len(in.Group))
		for _, m := range in.Group {
			group[m] = struct{}{}
		}
		for _, m := range in.Members {
			if _, ok := group[m]; !ok {
				return fmt.Errorf("%w: %s", ErrUnknownMember, m)
			}
		}
	}

	if _, ok := group[in.Payer]; !ok || in.Payer == "" {
		return ErrPayerNotMember
	}
	return nil
}

// settleRemainder folds total - sum(shares) into a single share.
// The payer takes it unless that would make their share negative, in which
// case the largest share does.
func settleRemainder(shares []Share, total decimal.Decimal, payer string) {
	diff := total.Sub(Sum(shares))
	if diff.IsZero() || len(shares) == 0 {
		return
	}

	target := -1
	for i, s := range shares {
		if s.MemberID == payer && s.Owed.Add(diff).Sign() >= 0 {
			target = i
			break
		}
	}
	if target < 0 {
		target = 0
		for i, s := range shares {
			if s.Owed.GreaterThan(shares[target].Owed) {
				target = i
			}
		}
	}
	shares[target].Owed = shares[target].Owed.Add(diff)
}
