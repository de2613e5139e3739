package amqp

import (
	"encoding/json"
	"time"
)

const (
	EntityTransaction = "transaction"
	EntityCategory    = "category"
)

const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
)

// ChangeMessage announces that ledger rows changed. It carries ids only;
// consumers read current state from the database.
type ChangeMessage struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	IDs       []int64   `json:"ids"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(entity, action string, ids ...int64) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		Action:    action,
		IDs:       ids,
		Timestamp: time.Now(),
	}
}

// RoutingKey is "<entity>.<action>".
func (m *ChangeMessage) RoutingKey() string {
	return m.Entity + "." + m.Action
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
