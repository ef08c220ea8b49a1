package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"travel/config"
	"travel/infras/kafka"
	kafkaMocks "travel/infras/kafka/mocks"
	"travel/infras/otel/mocks"
	listingMocks "travel/internal/domains/listing/mocks"
	"travel/internal/events"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Topics.Booking = "booking.events"
	cfg.Kafka.Topics.Review = "review.events"

	return cfg
}

func TestPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	publisher := events.NewPublisher(client, testConfig(), mocks.NewOtel())

	event := events.Event{Type: events.BookingCreated, EntityID: "b-1", ListingID: "l-1", OccurredAt: time.Now()}

	client.EXPECT().SendMessages(gomock.Any(), "booking.events", kafka.Message{Key: "l-1", Value: event}).Return(nil)
	client.EXPECT().SendMessages(gomock.Any(), "review.events", gomock.Any()).Return(errors.New("broker down"))

	assert.NoError(t, publisher.PublishBooking(context.Background(), event))
	assert.Error(t, publisher.PublishReview(context.Background(), event))
}

func TestConsumer_Handle(t *testing.T) {
	encode := func(event events.Event) kafkaGo.Message {
		value, err := json.Marshal(event)
		assert.NoError(t, err)

		return kafkaGo.Message{Topic: "review.events", Value: value}
	}

	tests := []struct {
		name      string
		message   kafkaGo.Message
		setupMock func(listings *listingMocks.MockListingService)
		wantErr   bool
	}{
		{
			name:    "review invalidates listing",
			message: encode(events.Event{Type: events.ReviewCreated, EntityID: "r-1", ListingID: "l-1"}),
			setupMock: func(listings *listingMocks.MockListingService) {
				listings.EXPECT().InvalidateCache(gomock.Any(), "l-1")
			},
		},
		{
			name:      "event without listing",
			message:   encode(events.Event{Type: events.BookingDeleted, EntityID: "b-1"}),
			setupMock: func(*listingMocks.MockListingService) {},
		},
		{
			name:      "malformed payload",
			message:   kafkaGo.Message{Value: []byte("{")},
			setupMock: func(*listingMocks.MockListingService) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			listings := listingMocks.NewMockListingService(ctrl)
			tt.setupMock(listings)

			consumer := events.NewConsumer(kafkaMocks.NewMockClient(ctrl), testConfig(), mocks.NewOtel(), listings)

			err := consumer.Handle(context.Background(), tt.message)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}
