// Package redisrelay shares kitchen events between server instances through a
// Redis pub/sub channel. Every instance publishes to the channel and broadcasts
// what it receives to its own displays.
package redisrelay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is used when no channel is configured.
const DefaultChannel = "kitchen:orders"

var _ ports.EventPublisher = (*Relay)(nil)

// Broadcaster delivers a raw message to local subscribers.
type Broadcaster interface {
	Broadcast(msg []byte)
}

// Relay publishes events to Redis and forwards the channel to a Broadcaster.
type Relay struct {
	client  *redis.Client
	channel string
	local   Broadcaster
	logger  *slog.Logger
}

func NewRelay(client *redis.Client, channel string, local Broadcaster, logger *slog.Logger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Relay{
		client:  client,
		channel: channel,
		local:   local,
		logger:  logger.With("component", "redis_relay", "channel", channel),
	}
}

// Publish encodes event and publishes it on the channel. Local displays receive
// it through Run like every other instance.
func (r *Relay) Publish(ctx context.Context, event kitchen.Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Kind(), err)
	}
	return nil
}

// Run forwards channel messages until ctx is done. The subscription is confirmed
// before Run starts forwarding, so a failing Redis is reported at once.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() {
		_ = sub.Close()
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.logger.InfoContext(ctx, "relay subscribed")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.local.Broadcast([]byte(msg.Payload))
		}
	}
}
