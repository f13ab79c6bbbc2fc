//go:build darwin

package source

import (
	"context"
	"math"
	"os/exec"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
	"github.com/charlie0129/battpanel/pkg/smc"
)

type smcEnricher struct {
	conn   *smc.AppleSMC
	opened bool
}

func platformEnricher() Enricher {
	return &smcEnricher{conn: smc.New()}
}

func (e *smcEnricher) Enrich(s *powerinfo.Snapshot) error {
	s.LowPowerModeEnabled = lowPowerMode()

	if !e.opened {
		if err := e.conn.Open(); err != nil {
			return pkgerrors.Wrapf(err, "failed to open SMC connection")
		}
		e.opened = true
	}

	t, err := e.conn.GetTelemetry()
	if err != nil {
		return err
	}

	s.Temperature = t.Temperature
	if t.CycleCount > 0 {
		s.Cycles = t.CycleCount
	}
	if !s.IsBatteryPowered {
		s.ACWatts = int(math.Round(t.ACPower))
		s.ChargingCurrent = int(math.Round(t.ACAmperage * 1000))
		s.ChargingVoltage = int(math.Round(t.ACVoltage * 1000))
	}
	return nil
}

// lowPowerMode asks pmset, which is the only public source for the flag.
func lowPowerMode() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "pmset", "-g").Output()
	if err != nil {
		logrus.WithError(err).Trace("failed to run pmset")
		return false
	}
	return parseLowPowerMode(string(out))
}

func parseLowPowerMode(out string) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && (fields[0] == "lowpowermode" || fields[0] == "powermode") {
			return fields[1] == "1"
		}
	}
	return false
}
