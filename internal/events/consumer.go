package events

import (
	"context"
	"fmt"

	"travel/config"
	"travel/infras/kafka"
	"travel/infras/otel"
	listingService "travel/internal/domains/listing/service"
	"travel/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

// Consumer keeps listing views fresh. Review events move the rating aggregates and
// booking events move availability, so both drop the cached listing.
type Consumer struct {
	client   kafka.Client
	cfg      *config.Config
	otel     otel.Otel
	listings listingService.Listing
}

func NewConsumer(client kafka.Client, cfg *config.Config, otel otel.Otel, listings listingService.Listing) *Consumer {
	return &Consumer{
		client:   client,
		cfg:      cfg,
		otel:     otel,
		listings: listings,
	}
}

// Run consumes the booking and review topics until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, topic := range []string{c.cfg.Kafka.Topics.Booking, c.cfg.Kafka.Topics.Review} {
		group.Go(func() error {
			log.Info().Str("topic", topic).Msg("consuming events")

			return c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, topic, c.Handle)
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("event consumer stopped: %w", err)
	}

	return nil
}

func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Handle")
	defer scope.End()
	defer scope.TraceIfError(&err)

	event, err := kafka.Decode[Event](message)
	if err != nil {
		return err
	}

	scope.SetAttribute("event.type", event.Type)

	if event.ListingID == constant.Empty {
		log.Warn().Str("type", event.Type).Str("entity_id", event.EntityID).Msg("event without listing, skipped")

		return nil
	}

	c.listings.InvalidateCache(ctx, event.ListingID)

	log.Debug().Str("type", event.Type).Str("listing_id", event.ListingID).Msg("listing cache invalidated")

	return nil
}
