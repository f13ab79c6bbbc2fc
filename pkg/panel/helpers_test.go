package panel

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
	"github.com/charlie0129/battpanel/pkg/utils/ptr"
)

var testNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

type published struct {
	name    string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{name: name, payload: payload})
}

func (r *recorder) named(name string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, e := range r.events {
		if e.name == name {
			out = append(out, e.payload)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func newTestSettings(t *testing.T, processes int) *config.File {
	t.Helper()
	return config.NewFileFromConfig(&config.RawFileConfig{
		ProcessRowCount: ptr.To(processes),
	}, filepath.Join(t.TempDir(), "battpanel.json"))
}

func testEnv() Env {
	return Env{
		Preferences: config.DefaultPreferences(),
		Now:         testNow,
	}
}

func batterySnapshot() powerinfo.Snapshot {
	return powerinfo.Snapshot{
		Level:            0.5,
		IsBatteryPowered: true,
		CurrentCapacity:  50,
		MaxCapacity:      80,
		DesignedCapacity: 100,
		Health:           80,
		Cycles:           100,
		Amperage:         -500,
		Voltage:          12.345,
		Temperature:      30,
		TimeToEmpty:      125,
		PowerSource:      powerinfo.SourceBattery,
	}
}

func acSnapshot() powerinfo.Snapshot {
	s := batterySnapshot()
	s.IsBatteryPowered = false
	s.IsCharging = true
	s.Amperage = 1500
	s.TimeToEmpty = 0
	s.TimeToCharge = 45
	s.PowerSource = powerinfo.SourceAC
	s.ACWatts = 96
	s.ChargingCurrent = 3000
	s.ChargingVoltage = 12600
	return s
}

func processList(n int, usage float64) []powerinfo.ProcessEntry {
	list := make([]powerinfo.ProcessEntry, n)
	for i := range list {
		list[i] = powerinfo.ProcessEntry{
			PID:   100 + i,
			Name:  "proc" + string(rune('a'+i)),
			Usage: usage - float64(i),
		}
	}
	return list
}

var _ Publisher = &events.EventHub{}
