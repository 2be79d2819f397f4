package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/events"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Store is the persistence the notification service needs
type Store interface {
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListByMemberID(ctx context.Context, memberID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, memberID string) error
	GetUnreadCount(ctx context.Context, memberID string) (int, error)
}

// EventObserver is told about every publish attempt
type EventObserver interface {
	ObserveEvent(eventType string, err error)
}

// Service stores member notifications and fans activity out to the broker
type Service struct {
	repo      Store
	publisher events.Publisher
	observer  EventObserver
}

// NewService creates a new notification service. A nil publisher disables
// publishing; observer may be nil.
func NewService(repo Store, publisher events.Publisher, observer EventObserver) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, observer: observer}
}

// Record stores one notification per recipient and publishes the activity.
// A failed publish is logged; the notifications are already stored.
func (s *Service) Record(ctx context.Context, a Activity) error {
	notifications := make([]*Notification, 0, len(a.Recipients))
	seen := make(map[string]struct{}, len(a.Recipients))
	for _, memberID := range a.Recipients {
		if _, dup := seen[memberID]; dup || memberID == "" {
			continue
		}
		seen[memberID] = struct{}{}
		notifications = append(notifications, &Notification{
			ID:       uuid.NewString(),
			MemberID: memberID,
			GroupID:  a.GroupID,
			Type:     a.Type,
			EntityID: a.EntityID,
			Message:  a.Message,
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}

	err := s.publisher.Publish(ctx, events.NewMessage(a.Type, a.GroupID, a.EntityID, a.Recipients))
	if s.observer != nil {
		s.observer.ObserveEvent(a.Type, err)
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish event", "type", a.Type, "entity_id", a.EntityID, "error", err)
	}
	return nil
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id string) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByMemberID retrieves a page of notifications for a member
func (s *Service) ListByMemberID(ctx context.Context, memberID string, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByMemberID(ctx, memberID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read on behalf of memberID
func (s *Service) MarkAsRead(ctx context.Context, id, memberID string) error {
	notification, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.MemberID != memberID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a member
func (s *Service) MarkAllAsRead(ctx context.Context, memberID string) error {
	return s.repo.MarkAllAsRead(ctx, memberID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, memberID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, memberID)
}
