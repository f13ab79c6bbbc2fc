//go:build darwin

package smc

import (
	"encoding/binary"
	"math"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Telemetry is what the SMC adds on top of the OS battery interface.
// Keys the machine does not expose leave their field at zero.
type Telemetry struct {
	PluggedIn    bool
	ACVoltage    float64 // V
	ACAmperage   float64 // A
	ACPower      float64 // W
	BatteryPower float64 // W, negative while discharging
	Temperature  float64 // °C
	CycleCount   int
}

// IsPluggedIn returns whether the device is plugged in.
func (c *AppleSMC) IsPluggedIn() (bool, error) {
	v, err := c.Read(ACPowerKey)
	if err != nil {
		return false, err
	}

	return len(v.Bytes) == 1 && int8(v.Bytes[0]) > 0, nil
}

// GetTelemetry reads every known key. It only fails when none of them can
// be read.
func (c *AppleSMC) GetTelemetry() (*Telemetry, error) {
	t := &Telemetry{}
	read := 0

	if plugged, err := c.IsPluggedIn(); err == nil {
		t.PluggedIn = plugged
		read++
	}

	if v, err := c.Read(DCInCurrentKey); err == nil {
		t.ACAmperage = decodeFloat(v.Bytes)
		read++
	}
	if v, err := c.Read(DCInVoltageKey); err == nil {
		t.ACVoltage = decodeFloat(v.Bytes)
		read++
	}
	t.ACPower = t.ACAmperage * t.ACVoltage

	battCurrent, errCurrent := c.Read(BatteryCurrentKey)
	battVoltage, errVoltage := c.Read(BatteryVoltageKey)
	if errCurrent == nil && errVoltage == nil {
		t.BatteryPower = (float64(decodeInt(battCurrent.Bytes)) / 1000.0) * (float64(decodeUint(battVoltage.Bytes)) / 1000.0)
		read++
	}

	if v, err := c.Read(BatteryTemperatureKey); err == nil {
		t.Temperature = decodeTemperature(v.Bytes)
		read++
	}
	if v, err := c.Read(BatteryCycleCountKey); err == nil {
		t.CycleCount = int(decodeUint(v.Bytes))
		read++
	}

	if read == 0 {
		return nil, pkgerrors.New("no SMC telemetry key could be read")
	}

	logrus.WithFields(logrus.Fields{
		"acPower":     t.ACPower,
		"temperature": t.Temperature,
		"cycles":      t.CycleCount,
	}).Trace("read SMC telemetry")

	return t, nil
}

// decodeFloat decodes a 4-byte slice into a little-endian float32.
func decodeFloat(b []byte) float64 {
	if len(b) != 4 {
		return 0
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

// decodeInt decodes a 2-byte slice into a little-endian int16.
func decodeInt(b []byte) int16 {
	if len(b) != 2 {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

// decodeUint decodes a 2-byte slice into a little-endian uint16.
func decodeUint(b []byte) uint16 {
	if len(b) != 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// decodeTemperature handles both encodings seen for TB0T: a 4-byte flt on
// Apple Silicon and a 2-byte big-endian sp78 on older machines.
func decodeTemperature(b []byte) float64 {
	switch len(b) {
	case 4:
		return decodeFloat(b)
	case 2:
		return float64(int16(binary.BigEndian.Uint16(b))) / 256.0
	default:
		return 0
	}
}
