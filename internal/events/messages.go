package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the ledger
const (
	TypeExpenseAdded       = "ledger.expense_added"
	TypeExpenseDeleted     = "ledger.expense_deleted"
	TypeSettlementRecorded = "ledger.settlement_recorded"
	TypeSettlementDeleted  = "ledger.settlement_deleted"
)

// Message is a lightweight notice that a group's history changed.
// Consumers fetch the entity itself through the API.
type Message struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	GroupID    string    `json:"group_id"`
	EntityID   string    `json:"entity_id"`
	Recipients []string  `json:"recipients,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMessage stamps a new message with a fresh id and the current time
func NewMessage(eventType, groupID, entityID string, recipients []string) *Message {
	return &Message{
		ID:         uuid.NewString(),
		Type:       eventType,
		GroupID:    groupID,
		EntityID:   entityID,
		Recipients: recipients,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON decodes a message from JSON bytes
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
