package group

import "time"

// Group is a set of members who share expenses
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member is a participant of a group. MemberID is opaque and unique within
// the group; DisplayName is only for presentation.
type Member struct {
	GroupID     string    `json:"group_id"`
	MemberID    string    `json:"member_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}
