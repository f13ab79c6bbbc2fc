package source

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// SysfsEnricher reads the Linux power_supply class.
type SysfsEnricher struct {
	Root string
}

var _ Enricher = &SysfsEnricher{}

func (e *SysfsEnricher) path(elem ...string) string {
	root := e.Root
	if root == "" {
		root = "/sys"
	}
	return filepath.Join(append([]string{root}, elem...)...)
}

func (e *SysfsEnricher) Enrich(s *powerinfo.Snapshot) error {
	bats, _ := filepath.Glob(e.path("class", "power_supply", "BAT*"))
	if len(bats) == 0 {
		return pkgerrors.New("no battery in power_supply class")
	}
	bat := bats[0]

	if v, ok := readInt(filepath.Join(bat, "cycle_count")); ok {
		s.Cycles = int(v)
	}
	// temp is in tenths of a degree.
	if v, ok := readInt(filepath.Join(bat, "temp")); ok {
		s.Temperature = float64(v) / 10
	}

	if b, err := os.ReadFile(e.path("firmware", "acpi", "platform_profile")); err == nil {
		s.LowPowerModeEnabled = strings.TrimSpace(string(b)) == "low-power"
	}

	if s.IsBatteryPowered {
		return nil
	}

	// Adapter telemetry is approximated by what flows into the battery.
	currentUA, okCurrent := readInt(filepath.Join(bat, "current_now"))
	voltageUV, okVoltage := readInt(filepath.Join(bat, "voltage_now"))
	if okCurrent && okVoltage {
		s.ChargingCurrent = int(abs(currentUA) / 1000)
		s.ChargingVoltage = int(voltageUV / 1000)
		s.ACWatts = int(float64(abs(currentUA)) * float64(voltageUV) / 1e12)
	}

	return nil
}

func readInt(path string) (int64, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
