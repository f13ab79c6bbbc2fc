package source

import (
	"errors"
	"testing"
	"time"

	"github.com/distatus/battery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

func testBattery(state battery.State, rate float64) *battery.Battery {
	return &battery.Battery{
		State:      state,
		Current:    30000,
		Full:       60000,
		Design:     75000,
		ChargeRate: rate,
		Voltage:    12,
	}
}

func TestSnapshotFromBattery(t *testing.T) {
	tests := []struct {
		name string
		bat  *battery.Battery
		want powerinfo.Snapshot
	}{
		{
			name: "discharging",
			bat:  testBattery(battery.Discharging, 10000),
			want: powerinfo.Snapshot{
				Level: 0.5, IsBatteryPowered: true,
				CurrentCapacity: 2500, MaxCapacity: 5000, DesignedCapacity: 6250,
				Health: 80, Amperage: -833, Voltage: 12,
				TimeToEmpty: 180, PowerSource: powerinfo.SourceBattery,
			},
		},
		{
			name: "discharging, no rate yet",
			bat:  testBattery(battery.Discharging, 0),
			want: powerinfo.Snapshot{
				Level: 0.5, IsBatteryPowered: true,
				CurrentCapacity: 2500, MaxCapacity: 5000, DesignedCapacity: 6250,
				Health: 80, Voltage: 12,
				TimeToEmpty: -1, PowerSource: powerinfo.SourceBattery,
			},
		},
		{
			name: "charging",
			bat:  testBattery(battery.Charging, 10000),
			want: powerinfo.Snapshot{
				Level: 0.5, IsCharging: true,
				CurrentCapacity: 2500, MaxCapacity: 5000, DesignedCapacity: 6250,
				Health: 80, Amperage: 833, Voltage: 12,
				TimeToCharge: 180, PowerSource: powerinfo.SourceAC,
			},
		},
		{
			name: "full",
			bat:  testBattery(battery.Full, 0),
			want: powerinfo.Snapshot{
				Level: 0.5, IsCharged: true,
				CurrentCapacity: 2500, MaxCapacity: 5000, DesignedCapacity: 6250,
				Health: 80, Voltage: 12,
				PowerSource: powerinfo.SourceAC,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snapshotFromBattery(tt.bat))
		})
	}
}

func TestSnapshotFromBatteryDesignVoltage(t *testing.T) {
	bat := testBattery(battery.Unknown, 0)
	bat.Voltage = 0
	bat.DesignVoltage = 10

	s := snapshotFromBattery(bat)
	assert.Equal(t, 10.0, s.Voltage)
	assert.Equal(t, 3000, s.CurrentCapacity)
	assert.False(t, s.IsBatteryPowered)
}

type fakeEnricher struct {
	err error
}

func (f fakeEnricher) Enrich(s *powerinfo.Snapshot) error {
	s.Cycles = 42
	return f.err
}

func TestBatteryReaderRead(t *testing.T) {
	state := battery.Charging
	clock := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	r := &BatteryReader{
		get:      func() (*battery.Battery, error) { return testBattery(state, 10000), nil },
		enricher: fakeEnricher{err: errors.New("no smc")},
		now:      func() time.Time { return clock },
	}

	s, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 42, s.Cycles)
	require.NotNil(t, s.TimeOnACPower)
	assert.Equal(t, clock, *s.TimeOnACPower)

	// On battery the last plug-in time sticks.
	plugged := clock
	clock = clock.Add(time.Hour)
	state = battery.Discharging
	s, err = r.Read()
	require.NoError(t, err)
	require.NotNil(t, s.TimeOnACPower)
	assert.Equal(t, plugged, *s.TimeOnACPower)
}

func TestBatteryReaderNoTimestampOnBattery(t *testing.T) {
	r := &BatteryReader{
		get: func() (*battery.Battery, error) { return testBattery(battery.Discharging, 1), nil },
		now: time.Now,
	}
	s, err := r.Read()
	require.NoError(t, err)
	assert.Nil(t, s.TimeOnACPower)
}

func TestBatteryReaderErrors(t *testing.T) {
	r := &BatteryReader{get: func() (*battery.Battery, error) { return nil, errors.New("boom") }}
	_, err := r.Read()
	assert.ErrorContains(t, err, "failed to read battery")

	r = &BatteryReader{get: func() (*battery.Battery, error) { return nil, nil }}
	_, err = r.Read()
	assert.Error(t, err)
}
