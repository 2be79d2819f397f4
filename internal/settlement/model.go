package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/ledger"
)

// Settlement is a direct payment recorded between two members of a group.
// It moves balances like an expense FromMemberID paid and ToMemberID owes in full.
type Settlement struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
	Note         *string         `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Effects implements ledger.Entry
func (s *Settlement) Effects() []ledger.Effect {
	return ledger.SettlementRecord(s.FromMemberID, s.ToMemberID, s.Amount).Effects()
}
