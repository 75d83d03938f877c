package models

import "time"

// Stream message type discriminators sent by the backend.
const (
	MessageTypeHeartbeat  = "heartbeat"
	MessageTypeConnection = "connection"
)

// StreamMessage is the wire shape of a single server-push event.
type StreamMessage struct {
	// Type discriminates heartbeats and connection acks from payload
	// messages.
	Type string `json:"type"`

	// Topic, when set, routes the message to topic subscribers instead of
	// the general inbox.
	Topic string `json:"topic,omitempty"`

	// ID is the server-assigned message identifier (may be empty).
	ID string `json:"id,omitempty"`

	// Message is the free-form payload.
	Message string `json:"message,omitempty"`
}

// Notification is an inbox entry built from a stream message.
type Notification struct {
	// ID is unique within the inbox; a local identifier is generated when
	// the server omits one.
	ID string

	// Message is the free-form payload.
	Message string

	// Topic is the channel tag the message arrived with, if any.
	Topic string

	// Read marks the notification as seen by the user.
	Read bool

	// ReceivedAt is the local receipt time in UTC.
	ReceivedAt time.Time
}
