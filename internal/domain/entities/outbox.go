package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the payload schema of an outbox entry
type MessageType string

const (
	MessageTypeBooking      MessageType = "BOOKING"
	MessageTypeCancellation MessageType = "CANCELLATION"
	MessageTypeRegistration MessageType = "REGISTRATION"
)

// OutboxStatus represents the delivery state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "PENDING"
	OutboxStatusSent    OutboxStatus = "SENT"
	OutboxStatusFailed  OutboxStatus = "FAILED"
)

// OutboxMessage is a durable record of a notification obligation. It is
// written in the same transaction as the business mutation it describes and
// drained asynchronously by the dispatcher. Entries are never deleted; the
// table doubles as an audit log.
type OutboxMessage struct {
	ID          string          `json:"id" db:"id"`
	MessageType MessageType     `json:"message_type" db:"message_type"`
	Payload     json.RawMessage `json:"payload" db:"payload"`
	RoutingKey  string          `json:"routing_key" db:"routing_key"`
	Status      OutboxStatus    `json:"status" db:"status"`
	RetryCount  int             `json:"retry_count" db:"retry_count"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	SentAt      *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
	LastError   *string         `json:"last_error,omitempty" db:"last_error"`
}

// NewOutboxMessage serializes payload and builds a PENDING entry. A
// serialization failure here is a programming defect and must abort the
// surrounding transaction, so the error is returned rather than logged.
func NewOutboxMessage(messageType MessageType, payload interface{}, routingKey string) (*OutboxMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &OutboxMessage{
		ID:          uuid.New().String(),
		MessageType: messageType,
		Payload:     data,
		RoutingKey:  routingKey,
		Status:      OutboxStatusPending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
