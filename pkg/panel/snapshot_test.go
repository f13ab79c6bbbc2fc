package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
	"github.com/charlie0129/battpanel/pkg/utils/ptr"
)

func fieldMap(updates []FieldUpdate) map[FieldID]Field {
	m := make(map[FieldID]Field, len(updates))
	for _, u := range updates {
		m[u.ID] = u.Field()
	}
	return m
}

func TestReconcileSnapshotBattery(t *testing.T) {
	updates, transition := ReconcileSnapshot(false, batterySnapshot(), testEnv())
	fields := fieldMap(updates)

	assert.Equal(t, TransitionNone, transition)
	assert.Equal(t, Field{Text: "50%", Tooltip: "50 mAh"}, fields[FieldLevel])
	assert.Equal(t, "Battery Power", fields[FieldSource].Text)
	assert.Equal(t, "Time to discharge", fields[FieldTimeLabel].Text)
	assert.Equal(t, "2h 5min", fields[FieldTime].Text)
	assert.Equal(t, "80%", fields[FieldHealth].Text)
	assert.Equal(t, Field{Text: "50 / 80 / 100 mAh", Tooltip: "current / maximum / designed"}, fields[FieldCapacity])
	assert.Equal(t, "100", fields[FieldCycles].Text)
	assert.Equal(t, "30°C", fields[FieldTemperature].Text)
	assert.Equal(t, "6.17 W", fields[FieldBatteryPower].Text)
	assert.Equal(t, "500 mA", fields[FieldAmperage].Text)
	assert.Equal(t, "No", fields[FieldChargingState].Text)
	assert.Equal(t, "Not connected", fields[FieldAdapterPower].Text)
	assert.Equal(t, "Not connected", fields[FieldChargingCurrent].Text)
	assert.Equal(t, "Not connected", fields[FieldChargingVoltage].Text)
	assert.Equal(t, Field{Text: "Unknown", Tooltip: "Unknown"}, fields[FieldLastCharge])
}

func TestReconcileSnapshotAC(t *testing.T) {
	updates, transition := ReconcileSnapshot(false, acSnapshot(), testEnv())
	fields := fieldMap(updates)

	assert.Equal(t, TransitionMountAdapter, transition)
	assert.Equal(t, "Time to charge", fields[FieldTimeLabel].Text)
	assert.Equal(t, "45min", fields[FieldTime].Text)
	assert.Equal(t, "Yes", fields[FieldChargingState].Text)
	assert.Equal(t, "96 W", fields[FieldAdapterPower].Text)
	assert.Equal(t, "3000 mA", fields[FieldChargingCurrent].Text)
	assert.Equal(t, "12600 mV", fields[FieldChargingVoltage].Text)
	assert.Equal(t, "1500 mA", fields[FieldAmperage].Text)

	_, transition = ReconcileSnapshot(true, acSnapshot(), testEnv())
	assert.Equal(t, TransitionNone, transition)
}

func TestReconcileSnapshotTransitions(t *testing.T) {
	tests := []struct {
		name           string
		battery        bool
		adapterMounted bool
		want           Transition
	}{
		{"ac, absent", false, false, TransitionMountAdapter},
		{"ac, present", false, true, TransitionNone},
		{"battery, present", true, true, TransitionUnmountAdapter},
		{"battery, absent", true, false, TransitionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := batterySnapshot()
			s.IsBatteryPowered = tt.battery
			_, got := ReconcileSnapshot(tt.adapterMounted, s, testEnv())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcileSnapshotTime(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *powerinfo.Snapshot)
		long   bool
		want   string
	}{
		{"estimate", func(s *powerinfo.Snapshot) {}, false, "2h 5min"},
		{"long format", func(s *powerinfo.Snapshot) {}, true, "2 hours 5 minutes"},
		{"not available", func(s *powerinfo.Snapshot) { s.TimeToEmpty = 0 }, false, "Unknown"},
		{"calculating", func(s *powerinfo.Snapshot) { s.TimeToEmpty = -1 }, false, "Calculating"},
		{"other field calculating", func(s *powerinfo.Snapshot) {
			s.TimeToEmpty = 0
			s.TimeToCharge = -1
		}, false, "Unknown"},
		{"charged wins over calculating", func(s *powerinfo.Snapshot) {
			s.TimeToEmpty = -1
			s.IsCharged = true
		}, false, "Fully charged"},
		{"charged wins over estimate", func(s *powerinfo.Snapshot) { s.IsCharged = true }, false, "Fully charged"},
		{"ac uses time to charge", func(s *powerinfo.Snapshot) {
			s.IsBatteryPowered = false
			s.TimeToCharge = 65
		}, true, "1 hour 5 minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := batterySnapshot()
			tt.mutate(&s)
			env := testEnv()
			if tt.long {
				env.Preferences.TimeFormat = config.TimeFormatLong
			}
			fields := fieldMap(mustReconcile(s, env))
			assert.Equal(t, tt.want, fields[FieldTime].Text)
		})
	}
}

func mustReconcile(s powerinfo.Snapshot, env Env) []FieldUpdate {
	updates, _ := ReconcileSnapshot(false, s, env)
	return updates
}

func TestReconcileSnapshotLastCharge(t *testing.T) {
	tests := []struct {
		name        string
		at          *time.Time
		wantText    string
		wantTooltip string
	}{
		{"missing", nil, "Unknown", "Unknown"},
		{"future", ptr.To(testNow.Add(time.Hour)), "Unknown", "Unknown"},
		{
			"day and hours",
			ptr.To(testNow.Add(-(27*time.Hour + 20*time.Minute))),
			"1 day, 3 hours",
			"Mar 9, 2024 at 12:10 PM",
		},
		{
			"minutes only",
			ptr.To(testNow.Add(-5 * time.Minute)),
			"5 minutes",
			"Mar 10, 2024 at 3:25 PM",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := batterySnapshot()
			s.TimeOnACPower = tt.at
			fields := fieldMap(mustReconcile(s, testEnv()))
			assert.Equal(t, Field{Text: tt.wantText, Tooltip: tt.wantTooltip}, fields[FieldLastCharge])
		})
	}
}

func TestReconcileSnapshotDetails(t *testing.T) {
	s := batterySnapshot()
	s.State = ptr.To("Service recommended")
	s.Voltage = 11.4
	s.Level = -0.736
	s.Temperature = 30

	env := testEnv()
	env.Preferences.TemperatureUnit = config.TemperatureFahrenheit
	fields := fieldMap(mustReconcile(s, env))

	assert.Equal(t, "80% (Service recommended)", fields[FieldHealth].Text)
	assert.Equal(t, "11.4 V", fields[FieldVoltage].Text)
	assert.Equal(t, "5.7 W", fields[FieldBatteryPower].Text)
	assert.Equal(t, "74%", fields[FieldLevel].Text)
	assert.Equal(t, "86°F", fields[FieldTemperature].Text)
}

func TestReconcileSnapshotLocalized(t *testing.T) {
	env := testEnv()
	env.Localizer = format.NewLocalizer("de")
	fields := fieldMap(mustReconcile(batterySnapshot(), env))

	assert.Equal(t, "Batteriebetrieb", fields[FieldSource].Text)
	assert.Equal(t, "Zeit bis leer", fields[FieldTimeLabel].Text)
	assert.Equal(t, "Nicht verbunden", fields[FieldAdapterPower].Text)
}

func TestReconcileSnapshotPure(t *testing.T) {
	a, ta := ReconcileSnapshot(true, acSnapshot(), testEnv())
	b, tb := ReconcileSnapshot(true, acSnapshot(), testEnv())
	assert.Equal(t, a, b)
	assert.Equal(t, ta, tb)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		snap powerinfo.Snapshot
		want Portal
	}{
		{"battery", batterySnapshot(), Portal{Level: "50%", Time: "2h 5min"}},
		{"charging", acSnapshot(), Portal{Level: "50%", Time: "45min", Charging: "Charging"}},
		{"connected, not charging", func() powerinfo.Snapshot {
			s := acSnapshot()
			s.IsCharging = false
			s.TimeToCharge = 0
			return s
		}(), Portal{Level: "50%", Charging: "Connected"}},
		{"calculating", func() powerinfo.Snapshot {
			s := batterySnapshot()
			s.TimeToEmpty = -1
			return s
		}(), Portal{Level: "50%"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.snap, testEnv()))
		})
	}
}
