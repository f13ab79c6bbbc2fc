package source

import (
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// batteryTemperature picks the first sensor that belongs to the
// battery. Partial results are used even when reading some sensors failed.
func batteryTemperature(sensors func() ([]host.TemperatureStat, error)) (float64, bool) {
	if sensors == nil {
		return 0, false
	}
	stats, _ := sensors()
	for _, st := range stats {
		key := strings.ToLower(st.SensorKey)
		if strings.Contains(key, "bat") && st.Temperature > 0 {
			return st.Temperature, true
		}
	}
	return 0, false
}
