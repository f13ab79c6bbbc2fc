package config

import (
	"fmt"
	"sort"
	"strconv"

	pkgerrors "github.com/pkg/errors"
)

// Preference keys of the key-value view.
const (
	KeyProcesses       = "processes"
	KeyTimeFormat      = "timeFormat"
	KeyColor           = "color"
	KeyTemperatureUnit = "temperatureUnit"
	KeyLanguage        = "language"
)

// ErrUnknownKey is returned for keys the store does not know about.
var ErrUnknownKey = pkgerrors.New("unknown preference key")

// Keys returns every preference key in a stable order.
func Keys() []string {
	keys := []string{KeyProcesses, KeyTimeFormat, KeyColor, KeyTemperatureUnit, KeyLanguage}
	sort.Strings(keys)
	return keys
}

// Get returns the textual value of a preference.
func Get(c Config, key string) (string, error) {
	p := c.Preferences()
	switch key {
	case KeyProcesses:
		return strconv.Itoa(p.ProcessRowCount), nil
	case KeyTimeFormat:
		return p.TimeFormat, nil
	case KeyColor:
		return strconv.FormatBool(p.ColorEnabled), nil
	case KeyTemperatureUnit:
		return p.TemperatureUnit, nil
	case KeyLanguage:
		return p.Language, nil
	}
	return "", pkgerrors.Wrapf(ErrUnknownKey, "%q", key)
}

// Set validates and stores a preference given as text. It does not save.
func Set(c Config, key, value string) error {
	switch key {
	case KeyProcesses:
		n, err := strconv.Atoi(value)
		if err != nil {
			return pkgerrors.Wrapf(err, "invalid %s", key)
		}
		if n < 0 || n > MaxProcessRowCount {
			return fmt.Errorf("%s must be between 0 and %d, got %d", key, MaxProcessRowCount, n)
		}
		c.SetProcessRowCount(n)
	case KeyTimeFormat:
		if value != TimeFormatShort && value != TimeFormatLong {
			return fmt.Errorf("%s must be %q or %q, got %q", key, TimeFormatShort, TimeFormatLong, value)
		}
		c.SetTimeFormat(value)
	case KeyColor:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return pkgerrors.Wrapf(err, "invalid %s", key)
		}
		c.SetColorEnabled(b)
	case KeyTemperatureUnit:
		if value != TemperatureCelsius && value != TemperatureFahrenheit {
			return fmt.Errorf("%s must be %q or %q, got %q", key, TemperatureCelsius, TemperatureFahrenheit, value)
		}
		c.SetTemperatureUnit(value)
	case KeyLanguage:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		c.SetLanguage(value)
	default:
		return pkgerrors.Wrapf(ErrUnknownKey, "%q", key)
	}
	return nil
}
