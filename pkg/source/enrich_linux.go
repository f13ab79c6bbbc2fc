//go:build linux

package source

import (
	"github.com/shirou/gopsutil/v3/host"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

type linuxEnricher struct {
	sysfs   SysfsEnricher
	sensors func() ([]host.TemperatureStat, error)
}

func platformEnricher() Enricher {
	return &linuxEnricher{sensors: host.SensorsTemperatures}
}

func (e *linuxEnricher) Enrich(s *powerinfo.Snapshot) error {
	err := e.sysfs.Enrich(s)
	if s.Temperature == 0 {
		if t, ok := batteryTemperature(e.sensors); ok {
			s.Temperature = t
		}
	}
	return err
}
