package source

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// Sink receives measurements. panel.Panel implements it.
type Sink interface {
	OnMeasurement(powerinfo.Snapshot)
	OnProcessList([]powerinfo.ProcessEntry)
}

// Sampler drives the battery reader and the process sampler on their own
// tickers.
type Sampler struct {
	Interval        time.Duration
	ProcessInterval time.Duration

	Battery   *BatteryReader
	Processes *ProcessSampler
	// ProcessCount returns the number of processes to report. A nil func
	// or a zero count disables process sampling for that tick.
	ProcessCount func() int
}

func New(interval time.Duration, processCount func() int) *Sampler {
	return &Sampler{
		Interval:        interval,
		ProcessInterval: interval,
		Battery:         NewBatteryReader(),
		Processes:       NewProcessSampler(),
		ProcessCount:    processCount,
	}
}

// Run samples until ctx is done.
func (s *Sampler) Run(ctx context.Context, sink Sink) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.Battery != nil {
		g.Go(func() error {
			s.loop(ctx, s.Interval, func() {
				snap, err := s.Battery.Read()
				if err != nil {
					logrus.WithError(err).Warn("failed to read battery")
					return
				}
				sink.OnMeasurement(snap)
			})
			return nil
		})
	}

	if s.Processes != nil {
		g.Go(func() error {
			s.loop(ctx, s.ProcessInterval, func() {
				n := 0
				if s.ProcessCount != nil {
					n = s.ProcessCount()
				}
				if n <= 0 {
					return
				}
				list, err := s.Processes.Top(ctx, n)
				if err != nil {
					logrus.WithError(err).Warn("failed to sample processes")
					return
				}
				sink.OnProcessList(list)
			})
			return nil
		})
	}

	return g.Wait()
}

func (s *Sampler) loop(ctx context.Context, interval time.Duration, tick func()) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tick()
	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			return
		}
	}
}
