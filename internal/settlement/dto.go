package settlement

import (
	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/ledger"
)

// CreateSettlementRequest records that FromMemberID paid ToMemberID
type CreateSettlementRequest struct {
	GroupID      string         `json:"group_id" validate:"required,uuid"`
	FromMemberID string         `json:"from_member_id" validate:"required"`
	ToMemberID   string         `json:"to_member_id" validate:"required"`
	Amount       split.RawValue `json:"amount" swaggertype:"string" example:"25.00"`
	Note         *string        `json:"note,omitempty"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID           string  `json:"id"`
	GroupID      string  `json:"group_id"`
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`
	Note         *string `json:"note,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// BalanceResponse is one member's net position. Positive: the group owes them.
type BalanceResponse struct {
	MemberID string  `json:"member_id"`
	Amount   float64 `json:"amount"`
}

// TransferResponse is one suggested payment
type TransferResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// PlanResponse is the suggested way to settle a group
type PlanResponse struct {
	GroupID   string              `json:"group_id"`
	Settled   bool                `json:"settled"`
	Transfers []*TransferResponse `json:"transfers"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromMemberID: s.FromMemberID,
		ToMemberID:   s.ToMemberID,
		Amount:       s.Amount.InexactFloat64(),
		Note:         s.Note,
		CreatedAt:    s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func balancesToResponse(balances ledger.Balances) []*BalanceResponse {
	out := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = &BalanceResponse{MemberID: b.MemberID, Amount: b.Amount.InexactFloat64()}
	}
	return out
}

func planToResponse(groupID string, balances ledger.Balances, transfers []ledger.Transfer) *PlanResponse {
	out := &PlanResponse{
		GroupID:   groupID,
		Settled:   ledger.IsSettled(balances),
		Transfers: make([]*TransferResponse, len(transfers)),
	}
	for i, t := range transfers {
		out.Transfers[i] = &TransferResponse{From: t.From, To: t.To, Amount: t.Amount.InexactFloat64()}
	}
	return out
}
