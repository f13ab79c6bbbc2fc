package panel

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// Transition is the structural change a snapshot asks for.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionMountAdapter
	TransitionUnmountAdapter
)

func (t Transition) String() string {
	switch t {
	case TransitionMountAdapter:
		return "mount-adapter"
	case TransitionUnmountAdapter:
		return "unmount-adapter"
	default:
		return "none"
	}
}

// Env is everything a reconciliation pass reads besides the snapshot.
type Env struct {
	Preferences config.Preferences
	Localizer   *format.Localizer
	Now         time.Time
}

func (e Env) tr(key string) string {
	return e.Localizer.String(key)
}

// ReconcileSnapshot maps s onto display fields and decides whether the
// adapter section has to be mounted or removed. It has no side effects.
func ReconcileSnapshot(adapterMounted bool, s powerinfo.Snapshot, env Env) ([]FieldUpdate, Transition) {
	updates := []FieldUpdate{
		{ID: FieldLevel, Text: format.Percent(s.Level), Tooltip: fmt.Sprintf("%d mAh", s.CurrentCapacity)},
		{ID: FieldSource, Text: env.tr(s.PowerSource)},
	}

	label, value := timeRemaining(s, env)
	updates = append(updates,
		FieldUpdate{ID: FieldTimeLabel, Text: label},
		FieldUpdate{ID: FieldTime, Text: value},
	)

	lastCharge, lastChargeTip := lastCharge(s.TimeOnACPower, env)
	updates = append(updates, FieldUpdate{ID: FieldLastCharge, Text: lastCharge, Tooltip: lastChargeTip})

	health := fmt.Sprintf("%d%%", s.Health)
	if s.State != nil {
		health += fmt.Sprintf(" (%s)", *s.State)
	}

	amperage := int(math.Abs(float64(s.Amperage)))
	voltage := format.Round(s.Voltage, 2)
	power := format.Round(s.Voltage*float64(amperage)/1000, 2)

	updates = append(updates,
		FieldUpdate{ID: FieldHealth, Text: health},
		FieldUpdate{
			ID:      FieldCapacity,
			Text:    fmt.Sprintf("%d / %d / %d mAh", s.CurrentCapacity, s.MaxCapacity, s.DesignedCapacity),
			Tooltip: env.tr("current / maximum / designed"),
		},
		FieldUpdate{ID: FieldCycles, Text: strconv.Itoa(s.Cycles)},
		FieldUpdate{ID: FieldTemperature, Text: format.Temperature(s.Temperature, env.Preferences.TemperatureUnit)},
		FieldUpdate{ID: FieldBatteryPower, Text: format.Number(power) + " W"},
		FieldUpdate{ID: FieldAmperage, Text: fmt.Sprintf("%d mA", amperage)},
		FieldUpdate{ID: FieldVoltage, Text: format.Number(voltage) + " V"},
	)

	charging := env.tr("No")
	if s.IsCharging {
		charging = env.tr("Yes")
	}
	updates = append(updates, FieldUpdate{ID: FieldChargingState, Text: charging})

	if s.IsBatteryPowered {
		nc := env.tr("Not connected")
		updates = append(updates,
			FieldUpdate{ID: FieldAdapterPower, Text: nc},
			FieldUpdate{ID: FieldChargingCurrent, Text: nc},
			FieldUpdate{ID: FieldChargingVoltage, Text: nc},
		)
	} else {
		updates = append(updates,
			FieldUpdate{ID: FieldAdapterPower, Text: fmt.Sprintf("%d W", s.ACWatts)},
			FieldUpdate{ID: FieldChargingCurrent, Text: fmt.Sprintf("%d mA", s.ChargingCurrent)},
			FieldUpdate{ID: FieldChargingVoltage, Text: fmt.Sprintf("%d mV", s.ChargingVoltage)},
		)
	}

	transition := TransitionNone
	switch {
	case !s.IsBatteryPowered && !adapterMounted:
		transition = TransitionMountAdapter
	case s.IsBatteryPowered && adapterMounted:
		transition = TransitionUnmountAdapter
	}

	return updates, transition
}

// relevantMinutes returns the time field that applies to the power source.
func relevantMinutes(s powerinfo.Snapshot) int {
	if s.IsBatteryPowered {
		return s.TimeToEmpty
	}
	return s.TimeToCharge
}

func timeRemaining(s powerinfo.Snapshot, env Env) (label, value string) {
	label = env.tr("Time to charge")
	if s.IsBatteryPowered {
		label = env.tr("Time to discharge")
	}

	minutes := relevantMinutes(s)
	switch {
	case s.IsCharged:
		value = env.tr("Fully charged")
	case minutes == -1:
		value = env.tr("Calculating")
	case minutes <= 0:
		value = env.tr("Unknown")
	default:
		value = format.Duration(float64(minutes*60), env.Preferences.ShortTime())
	}
	return label, value
}

func lastCharge(at *time.Time, env Env) (text, tooltip string) {
	unknown := env.tr("Unknown")
	if at == nil {
		return unknown, unknown
	}
	elapsed, ok := format.Elapsed(*at, env.Now)
	if !ok {
		return unknown, unknown
	}
	return elapsed, format.Timestamp(*at)
}
