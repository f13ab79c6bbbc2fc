package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/panel"
)

func nextEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "stream closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return events.Event{}
}

func TestLocalStream(t *testing.T) {
	conf, err := config.NewFile(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	hub := events.NewEventHub()
	p := panel.New(panel.Options{Settings: conf, Publisher: hub})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	stream := localStream(ctx, hub, p)

	first := nextEvent(t, stream)
	assert.Equal(t, events.PanelState, first.Name)

	var mirror panel.Mirror
	require.NoError(t, mirror.Apply(first))
	assert.False(t, mirror.State.Gauge.Colored)

	p.ToggleColor()
	for {
		ev := nextEvent(t, stream)
		require.NoError(t, mirror.Apply(ev))
		if ev.Name == events.PanelGauge {
			break
		}
	}
	assert.True(t, mirror.State.Gauge.Colored)

	cancel()
	for range stream {
	}
}
