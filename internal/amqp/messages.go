package amqp

import (
	"encoding/json"
	"time"
)

// ClaimEventMessage signals that a claim was created or its status
// changed. It carries only the ID; the worker fetches the full claim
// and its listing from the database before mirroring it.
type ClaimEventMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewClaimEventMessage creates a new claim event message
func NewClaimEventMessage(id, version int64) *ClaimEventMessage {
	return &ClaimEventMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ClaimEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ClaimEventMessageFromJSON creates a message from JSON bytes
func ClaimEventMessageFromJSON(data []byte) (*ClaimEventMessage, error) {
	var msg ClaimEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
