package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/ledger"
)

// Expense is a recorded expense: PayerID fronted Amount and each share
// member owes AmountOwed. Shares are fixed at creation time.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PayerID     string          `json:"payer_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	SplitType   split.Policy    `json:"split_type"`
	Shares      []Share         `json:"shares"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Share is one member's owed part of an expense
type Share struct {
	MemberID   string          `json:"member_id"`
	AmountOwed decimal.Decimal `json:"amount_owed"`
}

// Record converts the expense to the ledger's plain record shape
func (e *Expense) Record() ledger.Record {
	owed := make([]ledger.Owed, len(e.Shares))
	for i, s := range e.Shares {
		owed[i] = ledger.Owed{MemberID: s.MemberID, Amount: s.AmountOwed}
	}
	return ledger.Record{Payer: e.PayerID, Total: e.Amount, Owed: owed}
}

// Effects implements ledger.Entry
func (e *Expense) Effects() []ledger.Effect {
	return e.Record().Effects()
}

// Debtors lists share members other than the payer who owe something
func (e *Expense) Debtors() []string {
	var out []string
	for _, s := range e.Shares {
		if s.MemberID != e.PayerID && s.AmountOwed.Sign() > 0 {
			out = append(out, s.MemberID)
		}
	}
	return out
}

func sharesFrom(computed []split.Share) []Share {
	shares := make([]Share, len(computed))
	for i, c := range computed {
		shares[i] = Share{MemberID: c.MemberID, AmountOwed: c.Owed}
	}
	return shares
}

func toSplitShares(shares []Share) []split.Share {
	out := make([]split.Share, len(shares))
	for i, s := range shares {
		out[i] = split.Share{MemberID: s.MemberID, Owed: s.AmountOwed}
	}
	return out
}
