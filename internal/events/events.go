package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"travel/config"
	"travel/infras/kafka"
	"travel/infras/otel"
	"travel/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	BookingCreated       = "booking.created"
	BookingUpdated       = "booking.updated"
	BookingStatusChanged = "booking.status_changed"
	BookingCancelled     = "booking.cancelled"
	BookingDeleted       = "booking.deleted"

	ReviewCreated = "review.created"
	ReviewUpdated = "review.updated"
	ReviewDeleted = "review.deleted"
)

// Event describes a change to a booking or review. Messages are keyed by listing
// so every change to one listing is consumed in order.
type Event struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	ListingID  string    `json:"listing_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishBooking(ctx context.Context, event Event) error
	PublishReview(ctx context.Context, event Event) error
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) PublishBooking(ctx context.Context, event Event) error {
	return p.publish(ctx, p.cfg.Kafka.Topics.Booking, event)
}

func (p *publisherImpl) PublishReview(ctx context.Context, event Event) error {
	return p.publish(ctx, p.cfg.Kafka.Topics.Review, event)
}

func (p *publisherImpl) publish(ctx context.Context, topic string, event Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".publish")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttributes(map[string]any{
		"event.type":   event.Type,
		"event.topic":  topic,
		"event.entity": event.EntityID,
	})

	if err = p.client.SendMessages(ctx, topic, kafka.Message{Key: event.ListingID, Value: event}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	return nil
}

// Emit publishes in the background. Failures are logged; the write that raised the event has already committed.
func Emit(ctx context.Context, publish func(context.Context, Event) error, event Event) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := publish(c, event); err != nil {
			log.Error().Err(err).Str("type", event.Type).Str("entity_id", event.EntityID).Msg("failed to publish event")
		}
	}()
}
