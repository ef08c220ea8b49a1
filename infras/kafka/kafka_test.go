package kafka_test

import (
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"travel/infras/kafka"
)

type payload struct {
	Type     string `json:"type"`
	EntityID string `json:"entity_id"`
}

func TestDecode(t *testing.T) {
	msg := kafkaGo.Message{
		Topic: "booking.events",
		Key:   []byte("listing-1"),
		Value: []byte(`{"type":"booking.created","entity_id":"b-1"}`),
	}

	value, err := kafka.Decode[payload](msg)

	assert.NoError(t, err)
	assert.Equal(t, payload{Type: "booking.created", EntityID: "b-1"}, value)

	_, err = kafka.Decode[payload](kafkaGo.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}
