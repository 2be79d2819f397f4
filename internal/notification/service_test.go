package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fkhayef/splitledger/internal/events"
)

type memStore struct {
	mu    sync.Mutex
	items []*Notification
	clock time.Time
}

func (m *memStore) CreateBatch(_ context.Context, notifications []*Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range notifications {
		m.clock = m.clock.Add(time.Second)
		n.CreatedAt = m.clock
		cp := *n
		m.items = append(m.items, &cp)
	}
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByMemberID(_ context.Context, memberID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*Notification
	for _, n := range m.items {
		if n.MemberID == memberID && (!unreadOnly || !n.IsRead) {
			cp := *n
			matched = append(matched, &cp)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *memStore) MarkAsRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memStore) MarkAllAsRead(_ context.Context, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.MemberID == memberID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memStore) GetUnreadCount(_ context.Context, memberID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.items {
		if n.MemberID == memberID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type capturePublisher struct {
	mu   sync.Mutex
	sent []*events.Message
	err  error
}

func (p *capturePublisher) Publish(_ context.Context, msg *events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

type eventCounter map[string]int

func (c eventCounter) ObserveEvent(eventType string, err error) {
	if err != nil {
		c[eventType+":error"]++
		return
	}
	c[eventType]++
}

func TestRecordStoresPerRecipientAndPublishes(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	pub := &capturePublisher{}
	counter := eventCounter{}
	svc := NewService(store, pub, counter)
	ctx := context.Background()

	err := svc.Record(ctx, Activity{
		Type:       TypeExpenseAdded,
		GroupID:    "g1",
		EntityID:   "e1",
		Recipients: []string{"bob", "carol", "bob", ""},
		Message:    "alice paid 60.00",
	})
	require.NoError(t, err)

	require.Len(t, store.items, 2)
	require.Equal(t, "bob", store.items[0].MemberID)
	require.Equal(t, "carol", store.items[1].MemberID)
	require.Equal(t, TypeExpenseAdded, store.items[0].Type)

	require.Len(t, pub.sent, 1)
	require.Equal(t, events.TypeExpenseAdded, pub.sent[0].Type)
	require.Equal(t, "e1", pub.sent[0].EntityID)
	require.Equal(t, 1, counter[TypeExpenseAdded])
}

func TestRecordSurvivesPublishFailure(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	counter := eventCounter{}
	svc := NewService(store, &capturePublisher{err: errors.New("broker down")}, counter)

	err := svc.Record(context.Background(), Activity{Type: TypeSettlementRecorded, Recipients: []string{"bob"}})
	require.NoError(t, err)
	require.Len(t, store.items, 1)
	require.Equal(t, 1, counter[TypeSettlementRecorded+":error"])
}

func TestMarkAsRead(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	svc := NewService(store, nil, nil)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, Activity{Type: TypeExpenseAdded, Recipients: []string{"bob", "carol"}}))

	id := store.items[0].ID
	require.ErrorIs(t, svc.MarkAsRead(ctx, id, "carol"), ErrNotRecipient)
	require.ErrorIs(t, svc.MarkAsRead(ctx, "missing", "bob"), ErrNotificationNotFound)
	require.NoError(t, svc.MarkAsRead(ctx, id, "bob"))

	count, err := svc.GetUnreadCount(ctx, "bob")
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, svc.MarkAllAsRead(ctx, "carol"))
	count, err = svc.GetUnreadCount(ctx, "carol")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestHandlerListAndRead(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	svc := NewService(store, nil, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, Activity{Type: TypeExpenseAdded, Recipients: []string{"bob"}, Message: "m"}))
	}
	h := NewHandler(svc).Routes()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/member/bob?per_page=2", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data []NotificationResponse `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, 3, body.Meta.Total)
	require.Equal(t, 2, body.Meta.TotalPages)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/"+body.Data[0].ID+"/read", strings.NewReader(`{"member_id":"bob"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/member/bob/unread-count", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"unread_count":2`)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/not-a-uuid/read", strings.NewReader(`{"member_id":"bob"}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
