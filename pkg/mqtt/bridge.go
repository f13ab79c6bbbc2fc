package mqtt

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/events"
)

// Publisher sends one message. *Client implements it.
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

// Bridge forwards panel events to a broker, one topic per event name under
// a common prefix: panel.gauge goes to <prefix>/panel/gauge.
type Bridge struct {
	pub    Publisher
	prefix string
}

func NewBridge(pub Publisher, prefix string) *Bridge {
	return &Bridge{pub: pub, prefix: strings.TrimSuffix(prefix, "/")}
}

// Topic returns the topic an event is published on.
func (b *Bridge) Topic(name string) string {
	return b.prefix + "/" + strings.ReplaceAll(name, ".", "/")
}

// retained reports whether the broker should keep the last message for
// new subscribers. Events that carry a whole value are retained, deltas
// are not.
func retained(name string) bool {
	switch name {
	case events.PanelGauge, events.PanelPortal, events.PanelHeight, events.PanelState:
		return true
	}
	return false
}

// Run publishes every event from stream until ctx is done or stream is
// closed. Failed publishes are logged and skipped.
func (b *Bridge) Run(ctx context.Context, stream <-chan events.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-stream:
			if !ok {
				return nil
			}
			topic := b.Topic(ev.Name)
			if err := b.pub.Publish(topic, retained(ev.Name), ev.Data); err != nil {
				logrus.WithError(err).WithField("topic", topic).Warn("failed to publish event")
				continue
			}
			logrus.WithField("topic", topic).Trace("published event")
		}
	}
}
