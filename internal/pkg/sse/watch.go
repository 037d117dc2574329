package sse

import (
	"context"
)

// SnapshotFunc builds the complete current result set of a query.
type SnapshotFunc func(ctx context.Context) (interface{}, error)

type Snapshot struct {
	Data interface{}
	Err  error
}

// Watch emits a full snapshot immediately and again after every change notice
// on topics. Notices that arrive while a snapshot is pending are coalesced into
// one. The returned channel is closed when ctx is done.
func Watch(ctx context.Context, sub Subscriber, topics []string, snapshot SnapshotFunc) <-chan Snapshot {
	events, cleanup := sub.Subscribe(topics...)
	out := make(chan Snapshot, 1)

	go func() {
		defer close(out)
		defer cleanup()

		emit := func() bool {
			data, err := snapshot(ctx)
			select {
			case out <- Snapshot{Data: data, Err: err}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				drain(events)
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}

// OnChange calls callback with every snapshot Watch produces until ctx is done
// or snapshot/callback fails.
func OnChange(ctx context.Context, sub Subscriber, topics []string, snapshot SnapshotFunc, callback func(data interface{}) error) error {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for s := range Watch(watchCtx, sub, topics, snapshot) {
		if s.Err != nil {
			return s.Err
		}
		if err := callback(s.Data); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func drain(events <-chan Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
