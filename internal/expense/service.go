package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/notification"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrDescriptionRequired = errors.New("description is required")
)

// Store is the persistence the expense service needs
type Store interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error)
	ListAllByGroupID(ctx context.Context, groupID string) ([]*Expense, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MemberLister resolves the current membership of a group
type MemberLister interface {
	ListMemberIDs(ctx context.Context, groupID string) ([]string, error)
}

// Notifier records activity for the members an expense affects
type Notifier interface {
	Record(ctx context.Context, a notification.Activity) error
}

// SplitObserver is told about every split computation
type SplitObserver interface {
	ObserveSplit(policy string, err error)
}

// Service handles expense business logic
type Service struct {
	repo         Store
	members      MemberLister
	splitFactory *split.Factory
	notifier     Notifier
	observer     SplitObserver
}

// NewService creates a new expense service. notifier and observer may be nil.
func NewService(repo Store, members MemberLister, splitFactory *split.Factory, notifier Notifier, observer SplitObserver) *Service {
	return &Service{
		repo:         repo,
		members:      members,
		splitFactory: splitFactory,
		notifier:     notifier,
		observer:     observer,
	}
}

// PreviewSplit computes the shares for req without saving anything
func (s *Service) PreviewSplit(ctx context.Context, req *CreateExpenseRequest) (*Expense, error) {
	return s.compute(ctx, req)
}

// CreateExpense validates req, computes its shares and saves the expense.
// Nothing is saved when the split is rejected.
func (s *Service) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*Expense, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	expense, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}
	expense.ID = uuid.NewString()
	expense.Description = description

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"split_type", expense.SplitType,
		"amount", expense.Amount.StringFixed(2))

	s.notify(ctx, notification.Activity{
		Type:       notification.TypeExpenseAdded,
		GroupID:    expense.GroupID,
		EntityID:   expense.ID,
		Recipients: expense.Debtors(),
		Message:    fmt.Sprintf("%s paid %s for %q", expense.PayerID, expense.Amount.StringFixed(2), expense.Description),
	})

	return expense, nil
}

// compute runs the split calculator for req against the group's membership
func (s *Service) compute(ctx context.Context, req *CreateExpenseRequest) (*Expense, error) {
	policy, err := split.ParsePolicy(req.SplitType)
	if err != nil {
		s.observe("UNKNOWN", err)
		return nil, err
	}

	total, err := split.ParseAmount(string(req.Amount))
	if err != nil {
		s.observe(string(policy), err)
		return nil, err
	}

	group, err := s.members.ListMemberIDs(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		s.observe(string(policy), split.ErrNoMembers)
		return nil, split.ErrNoMembers
	}

	in := split.Input{
		Total:   total,
		Payer:   strings.TrimSpace(req.PayerID),
		Members: group,
		Group:   group,
	}
	if len(req.Participants) > 0 {
		in.Members = make([]string, 0, len(req.Participants))
		in.Values = make(map[string]split.RawValue, len(req.Participants))
		for _, p := range req.Participants {
			if p == nil {
				continue
			}
			in.Members = append(in.Members, p.MemberID)
			in.Values[p.MemberID] = p.Value
		}
	}

	shares, err := s.splitFactory.Compute(policy, in)
	s.observe(string(policy), err)
	if err != nil {
		return nil, err
	}

	return &Expense{
		GroupID:   req.GroupID,
		PayerID:   in.Payer,
		Amount:    total,
		SplitType: policy,
		Shares:    sharesFrom(shares),
	}, nil
}

func (s *Service) observe(policy string, err error) {
	if s.observer != nil {
		s.observer.ObserveSplit(policy, err)
	}
}

func (s *Service) notify(ctx context.Context, a notification.Activity) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Record(ctx, a); err != nil {
		slog.WarnContext(ctx, "Failed to record activity", "type", a.Type, "entity_id", a.EntityID, "error", err)
	}
}

// GetExpenseByID retrieves an expense with its shares
func (s *Service) GetExpenseByID(ctx context.Context, id string) (*Expense, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

// ListExpensesByGroupID retrieves a page of expenses for a group
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID string, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// ListAllByGroupID returns the full expense history of a group
func (s *Service) ListAllByGroupID(ctx context.Context, groupID string) ([]*Expense, error) {
	return s.repo.ListAllByGroupID(ctx, groupID)
}

// DeleteExpense removes an expense from the group's history
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	expense, err := s.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "group_id", expense.GroupID)

	s.notify(ctx, notification.Activity{
		Type:       notification.TypeExpenseDeleted,
		GroupID:    expense.GroupID,
		EntityID:   expense.ID,
		Recipients: expense.Debtors(),
		Message:    fmt.Sprintf("Expense %q of %s was deleted", expense.Description, expense.Amount.StringFixed(2)),
	})
	return nil
}
