package group

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memStore struct {
	mu      sync.Mutex
	groups  map[string]*Group
	members map[string][]*Member
	clock   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		groups:  map[string]*Group{},
		members: map[string][]*Member{},
		clock:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) Create(_ context.Context, g *Group, members []*Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.CreatedAt = m.tick()
	m.groups[g.ID] = g
	for _, mem := range members {
		mem.JoinedAt = m.tick()
		m.members[g.ID] = append(m.members[g.ID], mem)
	}
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groups[id], nil
}

func (m *memStore) List(_ context.Context, limit, offset int) ([]*Group, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*Group, 0, len(m.groups))
	for _, g := range m.groups {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[id]; !ok {
		return false, nil
	}
	delete(m.groups, id)
	delete(m.members, id)
	return true, nil
}

func (m *memStore) AddMember(_ context.Context, mem *Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.members[mem.GroupID] {
		if existing.MemberID == mem.MemberID {
			return ErrMemberAlreadyExists
		}
	}
	mem.JoinedAt = m.tick()
	m.members[mem.GroupID] = append(m.members[mem.GroupID], mem)
	return nil
}

func (m *memStore) GetMembers(_ context.Context, groupID string) ([]*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Member(nil), m.members[groupID]...), nil
}

func (m *memStore) RemoveMember(_ context.Context, groupID, memberID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.members[groupID]
	for i, mem := range list {
		if mem.MemberID == memberID {
			m.members[groupID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fixedBalances map[string]decimal.Decimal

func (f fixedBalances) MemberBalance(_ context.Context, _ string, memberID string) (decimal.Decimal, error) {
	if memberID == "broken" {
		return decimal.Zero, errors.New("ledger unavailable")
	}
	return f[memberID], nil
}

// racingBalances reports a settled member on the first read and a debt on
// every later one, as if an expense was recorded during the removal.
type racingBalances struct {
	mu    sync.Mutex
	reads int
}

func (r *racingBalances) MemberBalance(context.Context, string, string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.reads == 1 {
		return decimal.Zero, nil
	}
	return decimal.NewFromInt(-7), nil
}
