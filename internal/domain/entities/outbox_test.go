package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxMessage(t *testing.T) {
	payload := BookingMessage{
		ReservationID: "res-1",
		ProviderID:    "prov-1",
		RequesterID:   "req-1",
		Date:          "2026-09-15",
		TimeLabel:     "09:00 AM - 09:20 AM",
		SlotID:        1,
	}

	message, err := NewOutboxMessage(MessageTypeBooking, payload, "booking.key")
	require.NoError(t, err)

	assert.NotEmpty(t, message.ID)
	assert.Equal(t, MessageTypeBooking, message.MessageType)
	assert.Equal(t, OutboxStatusPending, message.Status)
	assert.Equal(t, "booking.key", message.RoutingKey)
	assert.Equal(t, 0, message.RetryCount)
	assert.Nil(t, message.SentAt)

	var decoded BookingMessage
	require.NoError(t, json.Unmarshal(message.Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewOutboxMessage_UnserializablePayload(t *testing.T) {
	_, err := NewOutboxMessage(MessageTypeBooking, make(chan int), "booking.key")
	assert.Error(t, err)
}
