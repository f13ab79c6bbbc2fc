package config

// Time formats.
const (
	TimeFormatShort = "short"
	TimeFormatLong  = "long"
)

// Temperature units.
const (
	TemperatureCelsius    = "celsius"
	TemperatureFahrenheit = "fahrenheit"
)

// MaxProcessRowCount bounds the process list size.
const MaxProcessRowCount = 32

type Config interface {
	ProcessRowCount() int
	TimeFormat() string
	ColorEnabled() bool
	TemperatureUnit() string
	Language() string

	SetProcessRowCount(int)
	SetTimeFormat(string)
	SetColorEnabled(bool)
	SetTemperatureUnit(string)
	SetLanguage(string)

	// Preferences returns a consistent copy of every panel preference.
	Preferences() Preferences

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

// Preferences is a read-only snapshot of the panel preferences, taken once
// at the start of a reconciliation pass.
type Preferences struct {
	ProcessRowCount int    `json:"processRowCount"`
	TimeFormat      string `json:"timeFormat"`
	ColorEnabled    bool   `json:"colorEnabled"`
	TemperatureUnit string `json:"temperatureUnit"`
	Language        string `json:"language"`
}

// ShortTime reports whether durations use the short style.
func (p Preferences) ShortTime() bool {
	return p.TimeFormat != TimeFormatLong
}

// DefaultPreferences returns the preferences of an empty config file.
func DefaultPreferences() Preferences {
	return NewFileFromConfig(nil, "").Preferences()
}
