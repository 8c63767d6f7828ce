package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/leadhub/lead-tracker/internal/api/metrics"
	"github.com/leadhub/lead-tracker/internal/core/domain"
)

// EventChannel is the pub/sub channel mutation events fan out on. Every
// API instance publishes here and every websocket hub subscribes, so
// events reach clients regardless of which instance they are connected
// to.
const EventChannel = "leadhub:events"

// Broadcaster publishes mutation events to the shared Redis channel.
type Broadcaster struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewBroadcaster(client *redis.Client, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{client: client, log: log}
}

// Publish serialises the event and pushes it onto the channel. Callers
// treat failures as non-fatal; the error is returned for their logging.
func (b *Broadcaster) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(event.Type)).Inc()
	b.log.Debug().
		Str("type", string(event.Type)).
		Str("lead_id", event.LeadID.String()).
		Int("rooms", len(event.Rooms)).
		Msg("event published")
	return nil
}

// Subscribe opens a subscription on the event channel. The caller owns
// the returned PubSub and must close it.
func Subscribe(ctx context.Context, client *redis.Client) *redis.PubSub {
	return client.Subscribe(ctx, EventChannel)
}
