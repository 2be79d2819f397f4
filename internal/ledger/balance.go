package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// tolerance is the smallest amount treated as a real debt
var tolerance = decimal.New(1, -2)

// Balance is a member's net position. Positive: the group owes them.
// Negative: they owe the group.
type Balance struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// Balances is an ordered list of member balances
type Balances []Balance

// Map indexes the balances by member id
func (b Balances) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(b))
	for _, bal := range b {
		m[bal.MemberID] = bal.Amount
	}
	return m
}

// Get returns the balance of memberID, or zero if the member is not listed
func (b Balances) Get(memberID string) decimal.Decimal {
	for _, bal := range b {
		if bal.MemberID == memberID {
			return bal.Amount
		}
	}
	return decimal.Zero
}

// Sum adds every balance. It is zero for any well-formed history.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, bal := range b {
		total = total.Add(bal.Amount)
	}
	return total
}

// ComputeBalances folds entries into one balance per member, rounded to
// cents. Every member in members appears, zero included, in the given
// order. Ids referenced only by entries are appended in sorted order.
func ComputeBalances(members []string, entries []Entry) Balances {
	totals := make(map[string]decimal.Decimal, len(members))
	order := make([]string, 0, len(members))
	for _, m := range members {
		if _, ok := totals[m]; ok {
			continue
		}
		totals[m] = decimal.Zero
		order = append(order, m)
	}

	var extra []string
	for _, e := range entries {
		for _, eff := range e.Effects() {
			cur, ok := totals[eff.MemberID]
			if !ok {
				extra = append(extra, eff.MemberID)
			}
			totals[eff.MemberID] = cur.Add(eff.Delta)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	out := make(Balances, len(order))
	for i, m := range order {
		out[i] = Balance{MemberID: m, Amount: totals[m].Round(2)}
	}
	return out
}
