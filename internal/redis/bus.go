package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// FleetUpdatesChannel is the pub/sub channel carrying fleet events.
const FleetUpdatesChannel = "fleet_updates"

// EventBus relays serialized fleet events between server instances.
type EventBus struct {
	client  *redis.Client
	channel string
}

// NewEventBus creates an EventBus on the fleet updates channel.
func NewEventBus(client *redis.Client) *EventBus {
	return &EventBus{client: client, channel: FleetUpdatesChannel}
}

// Publish sends a payload to every subscriber.
func (b *EventBus) Publish(ctx context.Context, payload []byte) error {
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Subscribe calls handle for every message until ctx is cancelled.
func (b *EventBus) Subscribe(ctx context.Context, handle func([]byte)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				log.WithField("channel", b.channel).Warn("subscription closed")
				return nil
			}
			handle([]byte(msg.Payload))
		}
	}
}
