package transport

import (
	"encoding/json"
	"errors"
	"time"
)

// InboundMessage is one chat message arriving from the messenger gateway.
// UserID is the numeric chat identity checked against the allow-list.
type InboundMessage struct {
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// OutboundMessage is one reply going back to the messenger gateway.
type OutboundMessage struct {
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOutboundMessage creates a reply addressed to the given user.
func NewOutboundMessage(userID int64, text string) *OutboundMessage {
	return &OutboundMessage{
		UserID:    userID,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *OutboundMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InboundMessageFromJSON creates a message from JSON bytes
func InboundMessageFromJSON(data []byte) (*InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == 0 {
		return nil, errors.New("inbound message without user_id")
	}
	return &msg, nil
}
