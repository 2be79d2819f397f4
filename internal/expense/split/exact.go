package split

import "fmt"

// =============================================================================
// EXACT SPLIT STRATEGY
// Each participant owes the amount entered for them (must sum to total)
// =============================================================================

// ExactStrategy implements the Strategy interface for exact amount splits
type ExactStrategy struct{}

// Type returns the policy identifier
func (s *ExactStrategy) Type() Policy {
	return PolicyExact
}

// Validate checks if the inputs are valid for an exact split
func (s *ExactStrategy) Validate(in Input) error {
	_, err := s.owed(in)
	return err
}

// Calculate returns the entered amounts, rounded to cents
func (s *ExactStrategy) Calculate(in Input) ([]Share, error) {
	return s.owed(in)
}

func (s *ExactStrategy) owed(in Input) ([]Share, error) {
	in.Total = round2(in.Total)
	if err := validateCommon(in); err != nil {
		return nil, err
	}

	shares := make([]Share, len(in.Members))
	for i, m := range in.Members {
		amount := in.Values[m].Decimal()
		if amount.Sign() < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeValue, m)
		}
		shares[i] = Share{MemberID: m, Owed: round2(amount)}
	}

	// Allow for one cent of slack
	if sum := Sum(shares); !withinTolerance(sum, in.Total) {
		return nil, fmt.Errorf("%w: shares sum to %s, expected %s",
			ErrSplitMismatch, sum.StringFixed(2), in.Total.StringFixed(2))
	}

	return shares, nil
}
