package notification

import (
	"time"

	"github.com/fkhayef/splitledger/internal/events"
)

// Notification is one member's copy of a group activity
type Notification struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	GroupID   string    `json:"group_id"`
	Type      string    `json:"type"`
	EntityID  string    `json:"entity_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity types share their names with the published events
const (
	TypeExpenseAdded       = events.TypeExpenseAdded
	TypeExpenseDeleted     = events.TypeExpenseDeleted
	TypeSettlementRecorded = events.TypeSettlementRecorded
	TypeSettlementDeleted  = events.TypeSettlementDeleted
)

// Activity is something that happened in a group and concerns Recipients
type Activity struct {
	Type       string
	GroupID    string
	EntityID   string
	Recipients []string
	Message    string
}
