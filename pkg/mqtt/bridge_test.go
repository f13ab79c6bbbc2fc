package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battpanel/pkg/events"
)

type message struct {
	topic    string
	retained bool
	payload  string
}

type fakePublisher struct {
	sent []message
	fail map[string]bool
}

func (f *fakePublisher) Publish(topic string, retained bool, payload []byte) error {
	if f.fail[topic] {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, message{topic: topic, retained: retained, payload: string(payload)})
	return nil
}

func TestTopic(t *testing.T) {
	b := NewBridge(&fakePublisher{}, "home/laptop/")
	assert.Equal(t, "home/laptop/panel/gauge", b.Topic(events.PanelGauge))
	assert.Equal(t, "home/laptop/panel/fields", b.Topic(events.PanelFields))
}

func TestBridgeRun(t *testing.T) {
	pub := &fakePublisher{fail: map[string]bool{"battpanel/panel/rows": true}}
	b := NewBridge(pub, "battpanel")

	stream := make(chan events.Event, 3)
	stream <- events.Event{Name: events.PanelGauge, Data: json.RawMessage(`{"level":0.5}`)}
	stream <- events.Event{Name: events.PanelRows, Data: json.RawMessage(`{}`)}
	stream <- events.Event{Name: events.PanelFields, Data: json.RawMessage(`{"updates":[]}`)}
	close(stream)

	require.NoError(t, b.Run(context.Background(), stream))

	assert.Equal(t, []message{
		{topic: "battpanel/panel/gauge", retained: true, payload: `{"level":0.5}`},
		{topic: "battpanel/panel/fields", retained: false, payload: `{"updates":[]}`},
	}, pub.sent)
}

func TestBridgeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, NewBridge(&fakePublisher{}, "battpanel").Run(ctx, make(chan events.Event)))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BATTPANEL_MQTT_BROKER", "tcp://localhost:1883")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "tcp://localhost:1883", cfg.Broker)
	assert.NotEmpty(t, cfg.ClientID)
	assert.Greater(t, cfg.Timeout.Seconds(), 0.0)
}
