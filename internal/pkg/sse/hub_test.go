package sse

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()
	ctx := context.Background()

	leaves, cleanupLeaves := hub.Subscribe(TopicLeaves)
	defer cleanupLeaves()
	staffOnly, cleanupStaff := hub.Subscribe(TopicStaff)
	defer cleanupStaff()

	hub.Publish(ctx, Event{Topic: TopicLeaves, Event: "updated", Key: "req-1"})

	select {
	case ev := <-leaves:
		assert.Equal(t, "req-1", ev.Key)
	case <-time.After(time.Second):
		t.Fatal("expected event on leaves topic")
	}

	select {
	case ev := <-staffOnly:
		t.Fatalf("unexpected event on staff topic: %+v", ev)
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe(TopicLeaves, TopicAttendance)
	assert.Equal(t, 1, hub.SubscriberCount(TopicLeaves))
	assert.Equal(t, 1, hub.SubscriberCount(TopicAttendance))

	cleanup()
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount(TopicLeaves))
	assert.Equal(t, 0, hub.SubscriberCount(TopicAttendance))

	// publishing after cleanup must not panic on a closed channel
	hub.Publish(context.Background(), Event{Topic: TopicLeaves})
}

func TestHub_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe(TopicLeaves)
	defer cleanup()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(context.Background(), Event{Topic: TopicLeaves})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestWatch_EmitsInitialAndChangedSnapshots(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var version atomic.Int32
	snapshots := Watch(ctx, hub, []string{TopicLeaves}, func(ctx context.Context) (interface{}, error) {
		return version.Load(), nil
	})

	first := <-snapshots
	require.NoError(t, first.Err)
	assert.Equal(t, int32(0), first.Data)

	version.Store(1)
	hub.Publish(ctx, Event{Topic: TopicLeaves})

	select {
	case next := <-snapshots:
		assert.Equal(t, int32(1), next.Data)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot after the change notice")
	}

	cancel()
	for range snapshots {
	}
}

func TestOnChange_StopsOnCallbackError(t *testing.T) {
	hub := NewHub()
	stop := errors.New("stop")

	calls := 0
	err := OnChange(context.Background(), hub, []string{TopicStaff}, func(ctx context.Context) (interface{}, error) {
		return []string{"a", "b"}, nil
	}, func(data interface{}) error {
		calls++
		assert.Equal(t, []string{"a", "b"}, data)
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestOnChange_SnapshotError(t *testing.T) {
	hub := NewHub()
	boom := errors.New("boom")

	err := OnChange(context.Background(), hub, []string{TopicStaff}, func(ctx context.Context) (interface{}, error) {
		return nil, boom
	}, func(data interface{}) error {
		t.Fatal("callback must not run on snapshot error")
		return nil
	})

	assert.ErrorIs(t, err, boom)
}
