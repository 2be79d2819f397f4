package settlement

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/splitledger/internal/expense"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/notification"
)

type memStore struct {
	mu          sync.Mutex
	settlements []*Settlement
	clock       time.Time
}

func (m *memStore) Create(_ context.Context, s *Settlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	s.CreatedAt = m.clock
	cp := *s
	m.settlements = append(m.settlements, &cp)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.settlements {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Settlement, int, error) {
	all, _ := m.ListAllByGroupID(ctx, groupID)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memStore) ListAllByGroupID(_ context.Context, groupID string) ([]*Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Settlement
	for _, s := range m.settlements {
		if s.GroupID == groupID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.settlements {
		if s.ID == id {
			m.settlements = append(m.settlements[:i], m.settlements[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// expenseStore backs a real expense.Service so balances come from computed splits
type expenseStore struct {
	mu       sync.Mutex
	expenses []*expense.Expense
}

func (m *expenseStore) Create(_ context.Context, e *expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.expenses = append(m.expenses, &cp)
	return nil
}

func (m *expenseStore) GetByID(_ context.Context, id string) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.expenses {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *expenseStore) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*expense.Expense, int, error) {
	all, _ := m.ListAllByGroupID(ctx, groupID)
	return all, len(all), nil
}

func (m *expenseStore) ListAllByGroupID(_ context.Context, groupID string) ([]*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*expense.Expense
	for _, e := range m.expenses {
		if e.GroupID == groupID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *expenseStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.expenses {
		if e.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type groups map[string][]string

func (g groups) ListMemberIDs(_ context.Context, groupID string) ([]string, error) {
	members, ok := g[groupID]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	return members, nil
}

type notifierStub struct {
	mu         sync.Mutex
	activities []notification.Activity
}

func (n *notifierStub) Record(_ context.Context, a notification.Activity) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activities = append(n.activities, a)
	return nil
}

type planCounter struct {
	mu        sync.Mutex
	plans     int
	residues  int
	transfers int
}

func (c *planCounter) ObservePlan(transfers int, residue bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans++
	c.transfers += transfers
	if residue {
		c.residues++
	}
}
