package source

import (
	"math"
	"time"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// Enricher fills in the snapshot fields the OS battery interface does not
// report, such as temperature, cycle count and adapter telemetry.
type Enricher interface {
	Enrich(s *powerinfo.Snapshot) error
}

// BatteryReader builds snapshots from the first battery of the machine.
type BatteryReader struct {
	get      func() (*battery.Battery, error)
	enricher Enricher
	now      func() time.Time

	lastOnAC *time.Time
}

func NewBatteryReader() *BatteryReader {
	return &BatteryReader{
		get: func() (*battery.Battery, error) {
			// All supported machines have a single battery.
			return battery.Get(0)
		},
		enricher: platformEnricher(),
		now:      time.Now,
	}
}

// Read takes one measurement. Enrichment failures are logged and leave the
// affected fields at their zero value.
func (r *BatteryReader) Read() (powerinfo.Snapshot, error) {
	bat, err := r.get()
	if err != nil {
		return powerinfo.Snapshot{}, pkgerrors.Wrapf(err, "failed to read battery")
	}
	if bat == nil {
		return powerinfo.Snapshot{}, pkgerrors.New("no battery found")
	}

	s := snapshotFromBattery(bat)

	if r.enricher != nil {
		if err := r.enricher.Enrich(&s); err != nil {
			logrus.WithError(err).Debug("failed to enrich battery snapshot")
		}
	}

	// TimeOnACPower follows the clock while plugged in and keeps the last
	// plug-in time on battery.
	if !s.IsBatteryPowered {
		now := r.now()
		r.lastOnAC = &now
	}
	if r.lastOnAC != nil {
		t := *r.lastOnAC
		s.TimeOnACPower = &t
	}

	return s, nil
}

func snapshotFromBattery(bat *battery.Battery) powerinfo.Snapshot {
	s := powerinfo.Snapshot{
		IsBatteryPowered: bat.State == battery.Discharging || bat.State == battery.Empty,
		IsCharging:       bat.State == battery.Charging,
		IsCharged:        bat.State == battery.Full,
		TimeToEmpty:      0,
		TimeToCharge:     0,
	}

	if bat.Full > 0 {
		s.Level = bat.Current / bat.Full
	}
	if bat.Design > 0 {
		s.Health = int(math.Round(bat.Full / bat.Design * 100))
	}

	voltage := bat.Voltage
	if voltage <= 0 {
		voltage = bat.DesignVoltage
	}
	s.Voltage = voltage

	// distatus/battery reports energy in mWh and power in mW.
	if voltage > 0 {
		s.CurrentCapacity = int(math.Round(bat.Current / voltage))
		s.MaxCapacity = int(math.Round(bat.Full / voltage))
		s.DesignedCapacity = int(math.Round(bat.Design / voltage))
		s.Amperage = int(math.Round(bat.ChargeRate / voltage))
	}
	if s.IsBatteryPowered {
		s.Amperage = -s.Amperage
	}

	switch {
	case s.IsBatteryPowered && bat.ChargeRate > 0:
		s.TimeToEmpty = int(bat.Current / bat.ChargeRate * 60)
	case s.IsBatteryPowered:
		s.TimeToEmpty = -1
	case s.IsCharging && bat.ChargeRate > 0:
		s.TimeToCharge = int((bat.Full - bat.Current) / bat.ChargeRate * 60)
	case s.IsCharging:
		s.TimeToCharge = -1
	}

	s.PowerSource = powerinfo.SourceAC
	if s.IsBatteryPowered {
		s.PowerSource = powerinfo.SourceBattery
	}

	return s
}
