package powerinfo

import "time"

// Power source keys. They double as localization keys.
const (
	SourceBattery = "Battery Power"
	SourceAC      = "AC Power"
)

// Snapshot is one battery/adapter measurement. It is consumed by a single
// reconciliation pass and then discarded.
// Units:
//   - capacities: mAh
//   - Amperage, ChargingCurrent: mA (Amperage is negative while discharging)
//   - Voltage: V
//   - ChargingVoltage: mV
//   - Temperature: degrees Celsius as reported by the sensor
//   - TimeToEmpty, TimeToCharge: minutes, -1 while the OS is still
//     calculating, 0 when not applicable
type Snapshot struct {
	Level            float64 `json:"level"`
	IsBatteryPowered bool    `json:"isBatteryPowered"`
	IsCharging       bool    `json:"isCharging"`
	IsCharged        bool    `json:"isCharged"`

	CurrentCapacity  int `json:"currentCapacity"`
	MaxCapacity      int `json:"maxCapacity"`
	DesignedCapacity int `json:"designedCapacity"`

	Health int     `json:"health"`
	Cycles int     `json:"cycles"`
	State  *string `json:"state,omitempty"`

	Amperage    int     `json:"amperage"`
	Voltage     float64 `json:"voltage"`
	Temperature float64 `json:"temperature"`

	TimeToEmpty  int `json:"timeToEmpty"`
	TimeToCharge int `json:"timeToCharge"`

	PowerSource         string `json:"powerSource"`
	LowPowerModeEnabled bool   `json:"lowPowerModeEnabled"`

	// Only meaningful when IsBatteryPowered is false.
	ACWatts         int `json:"acWatts"`
	ChargingCurrent int `json:"chargingCurrent"`
	ChargingVoltage int `json:"chargingVoltage"`

	TimeOnACPower *time.Time `json:"timeOnACPower,omitempty"`
}

// ProcessEntry is one ranked entry of a top-processes sample.
type ProcessEntry struct {
	PID   int     `json:"pid"`
	Name  string  `json:"name"`
	Usage float64 `json:"usage"`
}
