package sse

import (
	"context"
	"sync"
)

// Topics carry change notices for one store each.
const (
	TopicLeaves     = "leaves"
	TopicAttendance = "attendance"
	TopicStaff      = "staff"
)

// Event is a change notice. Key identifies the changed document when known.
type Event struct {
	Topic string      `json:"topic"`
	Event string      `json:"event"`
	Key   string      `json:"key,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type Subscriber interface {
	// Subscribe returns a channel receiving events of any of the topics and a
	// cleanup function that must be called once.
	Subscribe(topics ...string) (<-chan Event, func())
}

type Broker interface {
	Publisher
	Subscriber
}

// Hub is the in-process Broker.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

func (h *Hub) Subscribe(topics ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	for _, topic := range topics {
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[chan Event]struct{})
		}
		h.subscribers[topic][ch] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, topic := range topics {
				delete(h.subscribers[topic], ch)
				if len(h.subscribers[topic]) == 0 {
					delete(h.subscribers, topic)
				}
			}
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish delivers the event to every subscriber of its topic. Slow
// subscribers miss events rather than block the publisher.
func (h *Hub) Publish(_ context.Context, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[event.Topic]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
