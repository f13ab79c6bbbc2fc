package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battpanel/pkg/client"
	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/panel"
	"github.com/charlie0129/battpanel/pkg/tray"
	"github.com/charlie0129/battpanel/pkg/tui"
)

var (
	runLocal bool
	logFile  string
)

// localStream replays the panel state followed by every event from hub.
// Events published while the state is being read are delivered again after
// it. They carry absolute values, so applying them twice is harmless.
func localStream(ctx context.Context, hub *events.EventHub, p *panel.Panel) <-chan events.Event {
	sub := hub.Subscribe()
	out := make(chan events.Event, 64)

	go func() {
		defer close(out)
		defer hub.Unsubscribe(sub)

		st, err := p.State(ctx)
		if err != nil {
			return
		}
		b, err := json.Marshal(st)
		if err != nil {
			logrus.WithError(err).Error("failed to encode panel state")
			return
		}

		ev := events.Event{Name: events.PanelState, Data: b}
		for {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
			var ok bool
			select {
			case ev, ok = <-sub:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// remoteStream forwards the daemon's event stream until ctx is done or the
// connection drops.
func remoteStream(ctx context.Context, c *client.Client) <-chan events.Event {
	out := make(chan events.Event, 64)

	go func() {
		defer close(out)
		err := c.SubscribeEvents(ctx, func(ev events.Event) error {
			select {
			case out <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("event stream ended")
		}
	}()

	return out
}

// remoteController forwards user actions to the daemon.
type remoteController struct {
	c *client.Client
}

func (r remoteController) ToggleColor() {
	go func() {
		conf, err := r.c.GetConfig()
		if err != nil {
			logrus.WithError(err).Error("failed to get config")
			return
		}
		enabled := conf.ColorEnabled != nil && *conf.ColorEnabled
		if _, err := r.c.SetColor(!enabled); err != nil {
			logrus.WithError(err).Error("failed to toggle color")
		}
	}()
}

func (r remoteController) SetProcessCount(n int) {
	go func() {
		if _, err := r.c.SetProcessCount(n); err != nil {
			logrus.WithError(err).WithField("count", n).Error("failed to set process count")
		}
	}()
}

// SetVisible does nothing. The daemon keeps its process table live for
// every client.
func (r remoteController) SetVisible(visible bool) {
	logrus.WithField("visible", visible).Debug("visibility is not forwarded to the daemon")
}

// viewer is what watch and tray need to show a panel.
type viewer struct {
	stream <-chan events.Event
	prefs  config.Preferences

	tuiController  tui.Controller
	trayController tray.Controller

	// wait blocks until the in-process panel has stopped. It is nil when
	// the panel lives in the daemon.
	wait func() error
}

func newViewer(ctx context.Context) (*viewer, error) {
	if !runLocal {
		st, err := apiClient.GetState()
		if err != nil {
			return nil, err
		}
		ctrl := remoteController{c: apiClient}
		return &viewer{
			stream:         remoteStream(ctx, apiClient),
			prefs:          st.Preferences,
			tuiController:  ctrl,
			trayController: ctrl,
		}, nil
	}

	a, err := newApp()
	if err != nil {
		return nil, err
	}
	errc := make(chan error, 1)
	go func() { errc <- a.run(ctx) }()

	return &viewer{
		stream:         localStream(ctx, a.hub, a.panel),
		prefs:          a.conf.Preferences(),
		tuiController:  a.panel,
		trayController: a.panel,
		wait:           func() error { return <-errc },
	}, nil
}

// redirectLogs keeps log lines from drawing over a full screen view.
func redirectLogs() (func(), error) {
	if logFile == "" {
		logrus.SetOutput(io.Discard)
		return func() { logrus.SetOutput(os.Stderr) }, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}
	logrus.SetOutput(f)
	return func() {
		logrus.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func addViewerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&runLocal, "local", false, "Run the panel in this process instead of connecting to the daemon.")
	f.StringVar(&logFile, "log-file", "", "Write logs to this file while the view is open.")
}

func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "watch",
		Short:       "Show the panel in the terminal",
		GroupID:     gBasic,
		Annotations: daemonAnnotation,
		Long: `Show the panel in the terminal.

Keys: c toggles colors, + and - change the number of processes, h hides the
process table and q quits.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			v, err := newViewer(ctx)
			if err != nil {
				return err
			}

			restore, err := redirectLogs()
			if err != nil {
				return err
			}
			defer restore()

			m := tui.New(v.stream, v.tuiController, v.prefs.ProcessRowCount, v.prefs.Language)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			cancel()
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("failed to run terminal view: %v", err)
			}

			if v.wait != nil {
				return v.wait()
			}
			return nil
		},
	}

	addViewerFlags(cmd)

	return cmd
}

func NewTrayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "tray",
		Short:       "Show the panel in the system tray",
		GroupID:     gBasic,
		Annotations: daemonAnnotation,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			v, err := newViewer(ctx)
			if err != nil {
				return err
			}

			tray.Run(ctx, v.stream, v.trayController, v.prefs.Language)
			cancel()

			if v.wait != nil {
				return v.wait()
			}
			return nil
		},
	}

	addViewerFlags(cmd)

	return cmd
}
