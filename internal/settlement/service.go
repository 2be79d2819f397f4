package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/splitledger/internal/expense"
	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/ledger"
	"github.com/fkhayef/splitledger/internal/notification"
)

// Common errors
var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrSelfSettlement     = errors.New("cannot settle with yourself")
)

// Store is the persistence the settlement service needs
type Store interface {
	Create(ctx context.Context, s *Settlement) error
	GetByID(ctx context.Context, id string) (*Settlement, error)
	ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Settlement, int, error)
	ListAllByGroupID(ctx context.Context, groupID string) ([]*Settlement, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ExpenseSource provides a group's full expense history
type ExpenseSource interface {
	ListAllByGroupID(ctx context.Context, groupID string) ([]*expense.Expense, error)
}

// MemberLister resolves the current membership of a group
type MemberLister interface {
	ListMemberIDs(ctx context.Context, groupID string) ([]string, error)
}

// Notifier records activity for the members a settlement affects
type Notifier interface {
	Record(ctx context.Context, a notification.Activity) error
}

// PlanObserver is told about every settlement plan produced
type PlanObserver interface {
	ObservePlan(transfers int, residue bool)
}

// Service derives balances and settlement plans and records settlements
type Service struct {
	repo     Store
	expenses ExpenseSource
	members  MemberLister
	notifier Notifier
	observer PlanObserver
}

// NewService creates a new settlement service. notifier and observer may be nil.
func NewService(repo Store, expenses ExpenseSource, members MemberLister, notifier Notifier, observer PlanObserver) *Service {
	return &Service{
		repo:     repo,
		expenses: expenses,
		members:  members,
		notifier: notifier,
		observer: observer,
	}
}

// GetBalances computes every member's net balance from the group's full
// history of expenses and settlements.
func (s *Service) GetBalances(ctx context.Context, groupID string) (ledger.Balances, error) {
	var (
		members     []string
		expenses    []*expense.Expense
		settlements []*Settlement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.members.ListMemberIDs(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.ListAllByGroupID(gctx, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		settlements, err = s.repo.ListAllByGroupID(gctx, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry, 0, len(expenses)+len(settlements))
	for _, e := range expenses {
		entries = append(entries, e)
	}
	for _, st := range settlements {
		entries = append(entries, st)
	}

	return ledger.ComputeBalances(members, entries), nil
}

// GetPlan returns the balances of a group and a short list of transfers
// that brings every balance to zero.
func (s *Service) GetPlan(ctx context.Context, groupID string) (ledger.Balances, []ledger.Transfer, error) {
	balances, err := s.GetBalances(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	transfers := ledger.Simplify(balances)
	residue := !ledger.IsSettled(ledger.Apply(balances, transfers))
	if residue {
		slog.WarnContext(ctx, "Settlement plan leaves a residue",
			"group_id", groupID,
			"residue", ledger.Residue(balances, transfers).StringFixed(2))
	}
	if s.observer != nil {
		s.observer.ObservePlan(len(transfers), residue)
	}

	return balances, transfers, nil
}

// MemberBalance returns one member's net balance in a group
func (s *Service) MemberBalance(ctx context.Context, groupID, memberID string) (decimal.Decimal, error) {
	balances, err := s.GetBalances(ctx, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	return balances.Get(memberID), nil
}

// RecordSettlement stores a direct payment between two current members
func (s *Service) RecordSettlement(ctx context.Context, req *CreateSettlementRequest) (*Settlement, error) {
	from := strings.TrimSpace(req.FromMemberID)
	to := strings.TrimSpace(req.ToMemberID)
	if from == to {
		return nil, ErrSelfSettlement
	}

	amount, err := split.ParseAmount(string(req.Amount))
	if err != nil {
		return nil, err
	}

	members, err := s.members.ListMemberIDs(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{from, to} {
		if !slices.Contains(members, id) {
			return nil, fmt.Errorf("%w: %q", group.ErrMemberNotFound, id)
		}
	}

	settlement := &Settlement{
		ID:           uuid.NewString(),
		GroupID:      req.GroupID,
		FromMemberID: from,
		ToMemberID:   to,
		Amount:       amount.Round(2),
		Note:         req.Note,
	}
	if err := s.repo.Create(ctx, settlement); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from", from,
		"to", to,
		"amount", settlement.Amount.StringFixed(2))

	s.notify(ctx, notification.Activity{
		Type:       notification.TypeSettlementRecorded,
		GroupID:    settlement.GroupID,
		EntityID:   settlement.ID,
		Recipients: []string{to},
		Message:    fmt.Sprintf("%s paid you %s", from, settlement.Amount.StringFixed(2)),
	})

	return settlement, nil
}

func (s *Service) notify(ctx context.Context, a notification.Activity) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Record(ctx, a); err != nil {
		slog.WarnContext(ctx, "Failed to record activity", "type", a.Type, "entity_id", a.EntityID, "error", err)
	}
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListByGroupID retrieves a page of settlements for a group
func (s *Service) ListByGroupID(ctx context.Context, groupID string, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// DeleteSettlement removes a recorded settlement, restoring the debt it paid
func (s *Service) DeleteSettlement(ctx context.Context, id string) error {
	settlement, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSettlementNotFound
	}

	slog.InfoContext(ctx, "Settlement deleted", "settlement_id", id, "group_id", settlement.GroupID)

	s.notify(ctx, notification.Activity{
		Type:       notification.TypeSettlementDeleted,
		GroupID:    settlement.GroupID,
		EntityID:   settlement.ID,
		Recipients: []string{settlement.FromMemberID, settlement.ToMemberID},
		Message:    fmt.Sprintf("Payment of %s from %s to %s was deleted", settlement.Amount.StringFixed(2), settlement.FromMemberID, settlement.ToMemberID),
	})
	return nil
}
