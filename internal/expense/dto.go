package expense

import "github.com/fkhayef/splitledger/internal/expense/split"

// CreateExpenseRequest represents the request to create an expense.
// Amount and participant values accept JSON numbers or strings ("12,50" too).
// With no participants the expense is split across the whole group.
type CreateExpenseRequest struct {
	GroupID      string              `json:"group_id" validate:"required,uuid"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       split.RawValue      `json:"amount" swaggertype:"string" example:"60.00"`
	PayerID      string              `json:"payer_id" validate:"required"`
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT"`
	Participants []*SplitParticipant `json:"participants,omitempty"`
}

// SplitParticipant names one member of the split. Value is the owed amount
// for EXACT splits and percentage points for PERCENTAGE; EQUAL ignores it.
type SplitParticipant struct {
	MemberID string         `json:"member_id"`
	Value    split.RawValue `json:"value,omitempty" swaggertype:"string" example:"25"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          string           `json:"id"`
	GroupID     string           `json:"group_id"`
	PayerID     string           `json:"payer_id"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	SplitType   split.Policy     `json:"split_type"`
	CreatedAt   string           `json:"created_at"`
	Shares      []*ShareResponse `json:"shares,omitempty"`
}

// ShareResponse represents one member's share of an expense
type ShareResponse struct {
	MemberID   string  `json:"member_id"`
	AmountOwed float64 `json:"amount_owed"`
}

// PreviewResponse is the computed split for a request that was not saved
type PreviewResponse struct {
	SplitType split.Policy     `json:"split_type"`
	Amount    float64          `json:"amount"`
	TotalOwed float64          `json:"total_owed"`
	Shares    []*ShareResponse `json:"shares"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Amount:      e.Amount.InexactFloat64(),
		SplitType:   e.SplitType,
		CreatedAt:   e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Shares:      sharesToResponse(e.Shares),
	}
}

func sharesToResponse(shares []Share) []*ShareResponse {
	out := make([]*ShareResponse, len(shares))
	for i, s := range shares {
		out[i] = &ShareResponse{
			MemberID:   s.MemberID,
			AmountOwed: s.AmountOwed.InexactFloat64(),
		}
	}
	return out
}
