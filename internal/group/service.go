package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member is already in this group")
	ErrMemberHasBalance    = errors.New("member has an outstanding balance")
	ErrInvalidGroup        = errors.New("group name is required")
	ErrInvalidMember       = errors.New("member display name is required")
)

// Store is the persistence the group service needs
type Store interface {
	Create(ctx context.Context, g *Group, members []*Member) error
	GetByID(ctx context.Context, id string) (*Group, error)
	List(ctx context.Context, limit, offset int) ([]*Group, int, error)
	Delete(ctx context.Context, id string) (bool, error)
	AddMember(ctx context.Context, m *Member) error
	GetMembers(ctx context.Context, groupID string) ([]*Member, error)
	RemoveMember(ctx context.Context, groupID, memberID string) (bool, error)
}

// BalanceReader reports a member's current net balance in a group
type BalanceReader interface {
	MemberBalance(ctx context.Context, groupID, memberID string) (decimal.Decimal, error)
}

// balanceTolerance matches the ledger's notion of "settled"
var balanceTolerance = decimal.New(1, -2)

// Service handles group business logic
type Service struct {
	repo     Store
	balances BalanceReader
}

// NewService creates a new group service. balances may be nil, in which
// case members can be removed regardless of their balance.
func NewService(repo Store, balances BalanceReader) *Service {
	return &Service{repo: repo, balances: balances}
}

// Create creates a new group together with its initial members
func (s *Service) Create(ctx context.Context, req *CreateGroupRequest) (*Group, []*Member, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, ErrInvalidGroup
	}

	group := &Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
	}

	members := make([]*Member, 0, len(req.Members))
	seen := make(map[string]struct{}, len(req.Members))
	for _, mr := range req.Members {
		m, err := newMember(group.ID, mr)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := seen[m.MemberID]; dup {
			return nil, nil, fmt.Errorf("%w: %s", ErrMemberAlreadyExists, m.MemberID)
		}
		seen[m.MemberID] = struct{}{}
		members = append(members, m)
	}

	if err := s.repo.Create(ctx, group, members); err != nil {
		return nil, nil, err
	}

	slog.InfoContext(ctx, "Group created", "group_id", group.ID, "members", len(members))
	return group, members, nil
}

func newMember(groupID string, req *AddMemberRequest) (*Member, error) {
	if req == nil || strings.TrimSpace(req.DisplayName) == "" {
		return nil, ErrInvalidMember
	}
	id := strings.TrimSpace(req.MemberID)
	if id == "" {
		id = uuid.NewString()
	}
	return &Member{
		GroupID:     groupID,
		MemberID:    id,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id string) (*Group, []*Member, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// List retrieves a page of groups
func (s *Service) List(ctx context.Context, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Delete removes a group and its history
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGroupNotFound
	}
	slog.InfoContext(ctx, "Group deleted", "group_id", id)
	return nil
}

// AddMember adds a member to a group
func (s *Service) AddMember(ctx context.Context, groupID string, req *AddMemberRequest) (*Member, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	member, err := newMember(groupID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Member added", "group_id", groupID, "member_id", member.MemberID)
	return member, nil
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID string) ([]*Member, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, groupID)
}

// RemoveMember removes a member who is settled up. The balance is read again
// after the delete; if an expense touching the member landed in between, the
// member is put back and ErrMemberHasBalance is returned.
func (s *Service) RemoveMember(ctx context.Context, groupID, memberID string) error {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}

	if err := s.requireSettled(ctx, groupID, memberID); err != nil {
		return err
	}

	member, err := s.findMember(ctx, groupID, memberID)
	if err != nil {
		return err
	}

	removed, err := s.repo.RemoveMember(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}

	if err := s.requireSettled(ctx, groupID, memberID); err != nil {
		if restoreErr := s.repo.AddMember(ctx, member); restoreErr != nil {
			return errors.Join(err, fmt.Errorf("restore member: %w", restoreErr))
		}
		slog.WarnContext(ctx, "Member removal rolled back", "group_id", groupID, "member_id", memberID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "Member removed", "group_id", groupID, "member_id", memberID)
	return nil
}

func (s *Service) requireSettled(ctx context.Context, groupID, memberID string) error {
	if s.balances == nil {
		return nil
	}
	balance, err := s.balances.MemberBalance(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if balance.Abs().GreaterThan(balanceTolerance) {
		return fmt.Errorf("%w: %s", ErrMemberHasBalance, balance.StringFixed(2))
	}
	return nil
}

func (s *Service) findMember(ctx context.Context, groupID, memberID string) (*Member, error) {
	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.MemberID == memberID {
			return m, nil
		}
	}
	return nil, ErrMemberNotFound
}
