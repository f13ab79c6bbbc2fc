package panel

import (
	"context"
	"sync"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

type task func(s *Synchronizer)

// Panel runs a Synchronizer on a single goroutine. Producers never block:
// work is queued in arrival order and executed by Run.
type Panel struct {
	core *Synchronizer

	mu    sync.Mutex
	queue []task
	wake  chan struct{}
}

func New(opts Options) *Panel {
	return &Panel{
		core: NewSynchronizer(opts),
		wake: make(chan struct{}, 1),
	}
}

func (p *Panel) enqueue(t task) {
	p.mu.Lock()
	p.queue = append(p.queue, t)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Panel) next() task {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return nil
	}
	t := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return t
}

// Run executes queued work until ctx is done. Work still queued at that
// point is dropped.
func (p *Panel) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.wake:
		}

		for {
			if ctx.Err() != nil {
				return nil
			}
			t := p.next()
			if t == nil {
				break
			}
			t(p.core)
		}
	}
}

// OnMeasurement queues a snapshot.
func (p *Panel) OnMeasurement(snap powerinfo.Snapshot) {
	p.enqueue(func(s *Synchronizer) { s.ApplyMeasurement(snap) })
}

// OnProcessList queues a ranked process list. The list is copied.
func (p *Panel) OnProcessList(list []powerinfo.ProcessEntry) {
	list = append([]powerinfo.ProcessEntry(nil), list...)
	p.enqueue(func(s *Synchronizer) { s.ApplyProcessList(list) })
}

// OnProcessCountPreferenceChanged re-reads the configured row count.
func (p *Panel) OnProcessCountPreferenceChanged() {
	p.enqueue(func(s *Synchronizer) { s.ReloadProcessCount() })
}

// ReloadPreferences applies every preference re-read from the settings.
func (p *Panel) ReloadPreferences() {
	p.enqueue(func(s *Synchronizer) { s.ReloadPreferences() })
}

func (p *Panel) SetProcessCount(n int) {
	p.enqueue(func(s *Synchronizer) { s.SetProcessCount(n) })
}

func (p *Panel) SetVisible(visible bool) {
	p.enqueue(func(s *Synchronizer) { s.SetVisible(visible) })
}

func (p *Panel) ToggleColor() {
	p.enqueue(func(s *Synchronizer) { s.ToggleColor() })
}

func (p *Panel) SetColorEnabled(enabled bool) {
	p.enqueue(func(s *Synchronizer) { s.SetColorEnabled(enabled) })
}

// State returns a copy of the panel state once all previously queued work
// has run.
func (p *Panel) State(ctx context.Context) (State, error) {
	done := make(chan State, 1)
	p.enqueue(func(s *Synchronizer) { done <- s.State() })

	select {
	case st := <-done:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}
