package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository handles notification data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const notificationColumns = `id, member_id, group_id, type, entity_id, message, is_read, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (*Notification, error) {
	n := &Notification{}
	var groupID, entityID sql.NullString
	if err := row.Scan(
		&n.ID,
		&n.MemberID,
		&groupID,
		&n.Type,
		&entityID,
		&n.Message,
		&n.IsRead,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	n.GroupID = groupID.String
	n.EntityID = entityID.String
	return n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateBatch inserts one notification per entry in a single transaction
func (r *Repository) CreateBatch(ctx context.Context, notifications []*Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notifications (id, member_id, group_id, type, entity_id, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_read, created_at
	`
	for _, n := range notifications {
		err := tx.QueryRowContext(ctx, query,
			n.ID,
			n.MemberID,
			nullable(n.GroupID),
			n.Type,
			nullable(n.EntityID),
			n.Message,
		).Scan(&n.IsRead, &n.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notifications: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// ListByMemberID retrieves a page of notifications for a member, newest first
func (r *Repository) ListByMemberID(ctx context.Context, memberID string, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	filter := `WHERE member_id = $1`
	if unreadOnly {
		filter += ` AND is_read = false`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications `+filter, memberID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications ` + filter +
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkAsRead marks a notification as read
func (r *Repository) MarkAsRead(ctx context.Context, id string) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks all notifications as read for a member
func (r *Repository) MarkAllAsRead(ctx context.Context, memberID string) error {
	query := `UPDATE notifications SET is_read = true WHERE member_id = $1 AND is_read = false`
	if _, err := r.db.ExecContext(ctx, query, memberID); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

// GetUnreadCount returns the count of unread notifications for a member
func (r *Repository) GetUnreadCount(ctx context.Context, memberID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE member_id = $1 AND is_read = false`
	if err := r.db.QueryRowContext(ctx, query, memberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
