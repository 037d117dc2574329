//go:build integration

package sse

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisBroker_RelaysBetweenInstances(t *testing.T) {
	channel := "faculty-portal:test:" + t.Name()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := NewRedisBroker(newTestRedis(t), channel)
	receiver := NewRedisBroker(newTestRedis(t), channel)

	events, cleanup := receiver.Subscribe(TopicLeaves)
	defer cleanup()

	done := make(chan error, 1)
	go func() { done <- receiver.Run(ctx) }()

	// Run subscribes asynchronously; publish until the first notice lands.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		sender.Publish(ctx, Event{Topic: TopicLeaves, Event: "decided", Key: "req-1"})
		select {
		case ev := <-events:
			assert.Equal(t, TopicLeaves, ev.Topic)
			assert.Equal(t, "req-1", ev.Key)
			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
			return
		case <-deadline:
			t.Fatal("notice was not relayed through redis")
		case <-tick.C:
		}
	}
}
