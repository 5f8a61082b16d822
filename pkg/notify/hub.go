// Package notify fans events out to in-process observers. Delivery is
// fire-and-forget: a slow, failed or absent observer never affects the
// operation that published the event, nothing is retried, and there is no
// backlog — an observer subscribed after an event was published does not
// receive it.
package notify

import (
	"sync"
	"time"
)

// EventType names the lifecycle events the engine publishes.
type EventType string

const (
	EventComponentsReceived     EventType = "components-received"
	EventTransformationComplete EventType = "transformation-complete"
	EventSessionDeleted         EventType = "session-deleted"
)

// Event is one published notification.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher is the engine-facing side of the hub.
type Publisher interface {
	Publish(Event)
}

// Nop discards every event. Used when no observers are wired.
type Nop struct{}

func (Nop) Publish(Event) {}

// Hub is a concurrency-safe broadcast hub. Subscriber channels are
// buffered; when a buffer is full the event is dropped for that subscriber
// rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
	now  func() time.Time
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]chan Event),
		now:  time.Now,
	}
}

// Subscribe registers an observer. The returned cancel function removes
// the subscription and closes the channel; it is safe to call once.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish broadcasts the event to every current subscriber without
// blocking. The event timestamp is stamped here when unset.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = h.now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
			// subscriber buffer full: drop, never block or retry
		}
	}
}

// SubscriberCount reports how many observers are attached.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
