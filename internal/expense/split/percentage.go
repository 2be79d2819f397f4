package split

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Each participant owes round2(total * pct / 100); percentages must sum to 100
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage-based splits.
// Shares are rounded one by one and never reconciled against the total, so
// they may differ from it by up to half a cent per participant.
type PercentageStrategy struct{}

// Type returns the policy identifier
func (s *PercentageStrategy) Type() Policy {
	return PolicyPercentage
}

// Validate checks if the inputs are valid for a percentage split
func (s *PercentageStrategy) Validate(in Input) error {
	if err := validateCommon(in); err != nil {
		return err
	}

	sum := decimal.Zero
	for _, m := range in.Members {
		pct := in.Values[m].Decimal()
		if pct.Sign() < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeValue, m)
		}
		sum = sum.Add(pct)
	}

	if !withinTolerance(sum, hundred) {
		return fmt.Errorf("%w: percentages sum to %s, expected 100",
			ErrSplitMismatch, sum.String())
	}
	return nil
}

// Calculate converts each participant's percentage into an owed amount
func (s *PercentageStrategy) Calculate(in Input) ([]Share, error) {
	in.Total = round2(in.Total)
	if err := s.Validate(in); err != nil {
		return nil, err
	}

	shares := make([]Share, len(in.Members))
	for i, m := range in.Members {
		pct := in.Values[m].Decimal()
		shares[i] = Share{
			MemberID: m,
			Owed:     in.Total.Mul(pct).DivRound(hundred, 2),
		}
	}
	return shares, nil
}
