package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel change notices travel on.
const DefaultRedisChannel = "faculty-portal:changes"

// RedisBroker relays change notices between instances through Redis pub/sub.
// Local subscribers are served by an embedded Hub that is fed by Run.
type RedisBroker struct {
	hub     *Hub
	rdb     *redis.Client
	channel string
}

func NewRedisBroker(rdb *redis.Client, channel string) *RedisBroker {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBroker{
		hub:     NewHub(),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *RedisBroker) Subscribe(topics ...string) (<-chan Event, func()) {
	return b.hub.Subscribe(topics...)
}

// Publish sends the notice to Redis. When Redis is unreachable the notice is
// still delivered to this instance's subscribers.
func (b *RedisBroker) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode change notice", "topic", event.Topic, "error", err)
		b.hub.Publish(ctx, event)
		return
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		slog.Warn("Redis publish failed, delivering locally", "topic", event.Topic, "error", err)
		b.hub.Publish(ctx, event)
	}
}

// Run forwards notices from Redis to local subscribers until ctx is done.
func (b *RedisBroker) Run(ctx context.Context) error {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	slog.Info("Subscribed to change notices", "channel", b.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.Warn("Dropping malformed change notice", "error", err)
				continue
			}
			b.hub.Publish(ctx, event)
		}
	}
}
