// FilePath: internal/hub/hub.go
package hub

import (
	"sync"

	"github.com/agrosense/fieldhub/internal/monitoring"
	nuts "github.com/vaudience/go-nuts"
)

// Event is the envelope delivered to every subscriber
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscriber is one live event consumer. It holds no domain state, only a
// buffered delivery channel owned by the hub for the connection lifetime.
type Subscriber struct {
	id     string
	events chan Event
}

// ID returns the subscriber's connection id
func (s *Subscriber) ID() string {
	return s.id
}

// Events is the receive side of the subscriber's delivery channel. The
// channel is closed on Unsubscribe or hub shutdown.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Hub fans events out to all live subscribers. Publishing is fire-and-forget:
// a subscriber that cannot keep up has events dropped rather than slowing
// down the publisher or its peers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	buffer      int
	closed      bool
}

// New creates a hub whose subscribers buffer up to buffer events
func New(buffer int) *Hub {
	if buffer < 1 {
		buffer = 64
	}
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		buffer:      buffer,
	}
}

// Subscribe registers a new subscriber and returns its handle
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id:     nuts.NID("sub", 12),
		events: make(chan Event, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.events)
		return sub
	}
	h.subscribers[sub.id] = sub
	monitoring.HubSubscribers.Set(float64(len(h.subscribers)))
	nuts.L.Debugf("[Hub] Subscriber %s connected (%d active)", sub.id, len(h.subscribers))
	return sub
}

// Unsubscribe removes a subscriber and closes its delivery channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub.id]; !ok {
		return
	}
	delete(h.subscribers, sub.id)
	close(sub.events)
	monitoring.HubSubscribers.Set(float64(len(h.subscribers)))
	nuts.L.Debugf("[Hub] Subscriber %s disconnected (%d active)", sub.id, len(h.subscribers))
}

// Publish delivers the event to every live subscriber without blocking.
// Delivery to a subscriber with a full buffer is dropped.
func (h *Hub) Publish(event string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	evt := Event{Event: event, Data: data}
	monitoring.HubEventsPublished.WithLabelValues(event).Inc()
	for _, sub := range h.subscribers {
		select {
		case sub.events <- evt:
		default:
			monitoring.HubEventsDropped.Inc()
			nuts.L.Debugf("[Hub] Dropped %s event for slow subscriber %s", event, sub.id)
		}
	}
}

// SubscriberCount returns the number of live subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close shuts the hub down and closes every subscriber channel
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subscribers {
		close(sub.events)
		delete(h.subscribers, id)
	}
	monitoring.HubSubscribers.Set(0)
}
