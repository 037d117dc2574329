package sse

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisBroker_PublishFallsBackToLocalSubscribers(t *testing.T) {
	// Nothing listens on port 1, so every publish fails fast.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	broker := NewRedisBroker(rdb, "")
	events, cleanup := broker.Subscribe(TopicAttendance)
	defer cleanup()

	broker.Publish(context.Background(), Event{Topic: TopicAttendance, Event: "marked", Key: "user-1"})

	select {
	case ev := <-events:
		assert.Equal(t, "marked", ev.Event)
		assert.Equal(t, "user-1", ev.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("expected local delivery when redis is unreachable")
	}
}

func TestNewRedisBroker_DefaultChannel(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	assert.Equal(t, DefaultRedisChannel, NewRedisBroker(rdb, "").channel)
	assert.Equal(t, "custom", NewRedisBroker(rdb, "custom").channel)
}
