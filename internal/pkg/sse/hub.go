package sse

import (
	"sync"
)

// ChannelAdmins receives alerts addressed to payroll administrators.
const ChannelAdmins = "admins"

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Channel string
	Event   string
	Data    interface{}
}

// Hub fans events out to subscribers by channel. A channel is either
// ChannelAdmins or an employee ID.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers one event stream on every given channel. The returned
// cleanup must be called exactly once.
func (h *Hub) Subscribe(channels ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)
	for _, c := range channels {
		if h.subscribers[c] == nil {
			h.subscribers[c] = make(map[chan Event]struct{})
		}
		h.subscribers[c][ch] = struct{}{}
	}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, c := range channels {
			delete(h.subscribers[c], ch)
			if len(h.subscribers[c]) == 0 {
				delete(h.subscribers, c)
			}
		}
		close(ch)
	}

	return ch, cleanup
}

// Publish delivers the event to every subscriber of its channel. Slow
// subscribers miss events rather than block the publisher. It returns the
// number of subscribers reached.
func (h *Hub) Publish(event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[event.Channel] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers on a channel
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[channel])
}
