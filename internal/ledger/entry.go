// Package ledger derives member balances from a group's history and turns
// them into a short list of transfers that settles everyone up.
package ledger

import "github.com/shopspring/decimal"

// Effect is the signed change one entry makes to one member's balance.
// Positive means the group owes the member more.
type Effect struct {
	MemberID string
	Delta    decimal.Decimal
}

// Entry is anything recorded in a group's history that moves balances.
// Expenses and direct settlements both implement it.
type Entry interface {
	Effects() []Effect
}

// Owed is one member's share of a Record
type Owed struct {
	MemberID string
	Amount   decimal.Decimal
}

// Record is a plain expense: Payer fronted Total and each Owed member owes Amount
type Record struct {
	Payer string
	Total decimal.Decimal
	Owed  []Owed
}

// Effects credits the payer with the total and debits every share
func (r Record) Effects() []Effect {
	effects := make([]Effect, 0, len(r.Owed)+1)
	effects = append(effects, Effect{MemberID: r.Payer, Delta: r.Total})
	for _, o := range r.Owed {
		effects = append(effects, Effect{MemberID: o.MemberID, Delta: o.Amount.Neg()})
	}
	return effects
}

// SettlementRecord models "from paid to the given amount" as an expense
// fronted by from and owed entirely by to.
func SettlementRecord(from, to string, amount decimal.Decimal) Record {
	return Record{
		Payer: from,
		Total: amount,
		Owed: []Owed{
			{MemberID: from, Amount: decimal.Zero},
			{MemberID: to, Amount: amount},
		},
	}
}
