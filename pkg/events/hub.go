package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// SubscriberBuffer is how many panel events a subscriber may fall behind
// before the hub starts dropping events for it.
const SubscriberBuffer = 64

// EventHub fans panel events (PanelFields, PanelRows, PanelSection and the
// rest of the panel.* names) out to every subscriber: the SSE endpoint, the
// in-process terminal and tray views and the MQTT bridge. It implements
// panel.Publisher.
type EventHub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewEventHub() *EventHub { return &EventHub{subs: make(map[chan Event]struct{})} }

// Subscribe returns a buffered channel of events. A subscriber that falls
// more than the buffer behind misses events and should resync from the
// full panel state.
func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, SubscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish encodes payload once and fans it out to every subscriber.
func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", name).Error("failed to encode event")
		return
	}
	if !IsPanelEvent(name) {
		logrus.WithField("event", name).Warn("publishing an event the panel does not define")
	}
	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			logrus.WithField("event", name).Debug("subscriber is behind, dropping panel event")
		}
	}
	h.mu.RUnlock()
}
