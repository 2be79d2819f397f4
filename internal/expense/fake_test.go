package expense

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/notification"
)

type memStore struct {
	mu       sync.Mutex
	expenses []*Expense
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *memStore) Create(_ context.Context, e *Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	e.CreatedAt = m.clock
	cp := *e
	m.expenses = append(m.expenses, &cp)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Expense, error) {
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

func (m *memStore) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
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

func (m *memStore) ListAllByGroupID(_ context.Context, groupID string) ([]*Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Expense
	for _, e := range m.expenses {
		if e.GroupID == groupID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
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
	err        error
}

func (n *notifierStub) Record(_ context.Context, a notification.Activity) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activities = append(n.activities, a)
	return n.err
}

type splitCounter struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (c *splitCounter) ObserveSplit(policy string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = map[string]int{}
	}
	key := policy + ":ok"
	if err != nil {
		key = policy + ":error"
	}
	c.outcomes[key]++
}
