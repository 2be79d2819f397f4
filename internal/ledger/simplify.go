package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is one payment in a settlement plan: From pays To Amount
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type position struct {
	member    string
	remaining decimal.Decimal
}

// Simplify produces a greedy settlement plan for balances. The largest
// creditor is matched with the largest debtor until one side is exhausted,
// so the plan has at most len(creditors)+len(debtors)-1 transfers.
// Balances within one cent of zero are ignored. Ties keep input order, so
// the same input always yields the same plan. The input is not modified.
func Simplify(balances Balances) []Transfer {
	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.Amount.GreaterThan(tolerance):
			creditors = append(creditors, position{member: b.MemberID, remaining: b.Amount})
		case b.Amount.LessThan(tolerance.Neg()):
			debtors = append(debtors, position{member: b.MemberID, remaining: b.Amount})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining.GreaterThan(creditors[j].remaining)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining.LessThan(debtors[j].remaining)
	})

	transfers := make([]Transfer, 0, len(creditors)+len(debtors))
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		c, d := &creditors[i], &debtors[j]

		amount := decimal.Min(c.remaining, d.remaining.Neg())
		if amount.GreaterThan(tolerance) {
			transfers = append(transfers, Transfer{
				From:   d.member,
				To:     c.member,
				Amount: amount.Round(2),
			})
		}

		c.remaining = c.remaining.Sub(amount)
		d.remaining = d.remaining.Add(amount)

		if c.remaining.Abs().LessThan(tolerance) {
			i++
		}
		if d.remaining.Abs().LessThan(tolerance) {
			j++
		}
	}

	return transfers
}

// Apply returns balances after every transfer is paid: the payer's balance
// rises and the receiver's falls by the transfer amount.
func Apply(balances Balances, transfers []Transfer) Balances {
	out := make(Balances, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.MemberID] = i
	}
	for _, t := range transfers {
		if i, ok := index[t.From]; ok {
			out[i].Amount = out[i].Amount.Add(t.Amount)
		}
		if i, ok := index[t.To]; ok {
			out[i].Amount = out[i].Amount.Sub(t.Amount)
		}
	}
	return out
}

// Residue is the largest absolute balance left after applying transfers
func Residue(balances Balances, transfers []Transfer) decimal.Decimal {
	worst := decimal.Zero
	for _, b := range Apply(balances, transfers) {
		worst = decimal.Max(worst, b.Amount.Abs())
	}
	return worst
}

// IsSettled reports whether every balance is within one cent of zero
func IsSettled(balances Balances) bool {
	for _, b := range balances {
		if b.Amount.Abs().GreaterThan(tolerance) {
			return false
		}
	}
	return true
}
