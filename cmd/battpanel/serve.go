package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/metrics"
	"github.com/charlie0129/battpanel/pkg/mqtt"
	"github.com/charlie0129/battpanel/pkg/panel"
	"github.com/charlie0129/battpanel/pkg/server"
	"github.com/charlie0129/battpanel/pkg/source"
	"github.com/charlie0129/battpanel/pkg/version"
)

var (
	alwaysAllowNonRootAccess bool
	sampleInterval           = 2 * time.Second
	mqttBroker               string
)

// app is a panel with its config, event hub and sampler, ready to run.
type app struct {
	conf    *config.File
	hub     *events.EventHub
	panel   *panel.Panel
	sampler *source.Sampler
	metrics *metrics.Metrics
}

func newApp() (*app, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(conf.LogrusFields()).Info("config loaded")

	hub := events.NewEventHub()
	m := metrics.New()
	p := panel.New(panel.Options{
		Settings:  conf,
		Publisher: m.Publisher(hub),
	})

	return &app{
		conf:    conf,
		hub:     hub,
		panel:   p,
		sampler: source.New(sampleInterval, func() int { return conf.ProcessRowCount() }),
		metrics: m,
	}, nil
}

// run starts the panel and the sampler, plus extra, until ctx is done or
// one of them fails.
func (a *app) run(ctx context.Context, extra ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.panel.Run(ctx) })
	g.Go(func() error { return a.sampler.Run(ctx, a.metrics.Sink(a.panel)) })
	g.Go(func() error {
		a.reloadOnHangup(ctx)
		return nil
	})
	for _, fn := range extra {
		g.Go(func() error { return fn(ctx) })
	}

	return g.Wait()
}

// reloadOnHangup re-reads the config file on SIGHUP so that edits made by
// hand reach the panel.
func (a *app) reloadOnHangup(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := a.conf.Load(); err != nil {
				logrus.WithError(err).Error("failed to reload config")
				continue
			}
			logrus.WithFields(a.conf.LogrusFields()).Info("config reloaded")
			a.panel.ReloadPreferences()
		}
	}
}

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the battpanel daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("battpanel daemon starting")

			a, err := newApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Options{
				Panel:        a.panel,
				Config:       a.conf,
				Hub:          a.hub,
				SocketPath:   unixSocketPath,
				AllowNonRoot: alwaysAllowNonRootAccess,
				Metrics:      a.metrics.Handler(),
			})
			services := []func(context.Context) error{srv.Run}

			mqttCfg, err := mqtt.LoadConfig()
			if err != nil {
				return err
			}
			if mqttBroker != "" {
				mqttCfg.Broker = mqttBroker
			}
			if mqttCfg.Enabled() {
				mc, err := mqtt.Connect(mqttCfg)
				if err != nil {
					return err
				}
				defer mc.Close()

				bridge := mqtt.NewBridge(mc, mqttCfg.Topic)
				services = append(services, func(ctx context.Context) error {
					return bridge.Run(ctx, localStream(ctx, a.hub, a.panel))
				})
			}

			err = a.run(ctx, services...)
			logrus.Info("battpanel daemon stopped")
			return err
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "allow-non-root-access", false,
		"Allow users other than the owner to access the daemon.")
	f.DurationVar(&sampleInterval, "interval", sampleInterval, "How often to sample the battery and processes.")
	f.StringVar(&mqttBroker, "mqtt-broker", "",
		"Publish panel events to this MQTT broker, e.g. tcp://localhost:1883. Overrides BATTPANEL_MQTT_BROKER.")

	return cmd
}
