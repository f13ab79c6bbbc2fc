//go:build darwin

package smc

// SMC keys read on Apple Silicon.
const (
	ACPowerKey            = "AC-W"
	DCInCurrentKey        = "ID0R"
	DCInVoltageKey        = "VD0R"
	BatteryCurrentKey     = "B0AC"
	BatteryVoltageKey     = "B0AV"
	BatteryTemperatureKey = "TB0T"
	BatteryCycleCountKey  = "B0CT"
	BatteryChargeKey      = "BUIC"
)
