package split

import "github.com/shopspring/decimal"

// =============================================================================
// EQUAL SPLIT STRATEGY
// Every participant, payer included, owes round2(total / n)
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct {
	remainder Remainder
}

// Type returns the policy identifier
func (s *EqualStrategy) Type() Policy {
	return PolicyEqual
}

// Validate checks if the inputs are valid for an equal split.
// Equal splits take no per-member values, so there is no sum check.
func (s *EqualStrategy) Validate(in Input) error {
	return validateCommon(in)
}

// Calculate divides the total evenly among all participants
func (s *EqualStrategy) Calculate(in Input) ([]Share, error) {
	in.Total = round2(in.Total)
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	each := in.Total.DivRound(decimal.NewFromInt(int64(len(in.Members))), 2)

	shares := make([]Share, len(in.Members))
	for i, m := range in.Members {
		shares[i] = Share{MemberID: m, Owed: each}
	}

	if s.remainder == RemainderToPayer {
		settleRemainder(shares, in.Total, in.Payer)
	}
	return shares, nil
}
