package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/utils/ptr"
)

var (
	defaultFileConfig = RawFileConfig{
		ProcessRowCount: ptr.To(8),
		TimeFormat:      ptr.To(TimeFormatShort),
		ColorEnabled:    ptr.To(false),
		TemperatureUnit: ptr.To(TemperatureCelsius),
		Language:        ptr.To("en"),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	env      RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// NewFileFromConfig wraps an already decoded config. A nil c behaves like
// an empty file. Environment overrides are not applied.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// RawFileConfig is the on-disk shape. The env tags are only used to read
// overrides, which take precedence and are never written back.
type RawFileConfig struct {
	ProcessRowCount *int    `json:"processes,omitempty" toml:"processes,omitempty" env:"BATTPANEL_PROCESSES"`
	TimeFormat      *string `json:"timeFormat,omitempty" toml:"timeFormat,omitempty" env:"BATTPANEL_TIME_FORMAT"`
	ColorEnabled    *bool   `json:"color,omitempty" toml:"color,omitempty" env:"BATTPANEL_COLOR"`
	TemperatureUnit *string `json:"temperatureUnit,omitempty" toml:"temperatureUnit,omitempty" env:"BATTPANEL_TEMPERATURE_UNIT"`
	Language        *string `json:"language,omitempty" toml:"language,omitempty" env:"BATTPANEL_LANGUAGE"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	p := c.Preferences()
	return &RawFileConfig{
		ProcessRowCount: ptr.To(p.ProcessRowCount),
		TimeFormat:      ptr.To(p.TimeFormat),
		ColorEnabled:    ptr.To(p.ColorEnabled),
		TemperatureUnit: ptr.To(p.TemperatureUnit),
		Language:        ptr.To(p.Language),
	}, nil
}

// pick returns the first non-nil of the env override, the file value and
// the default.
func pick[T any](override, value, def *T) T {
	if override != nil {
		return *override
	}
	if value != nil {
		return *value
	}
	return *def
}

func (f *File) ProcessRowCount() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.processRowCount()
}

func (f *File) TimeFormat() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.timeFormat()
}

func (f *File) ColorEnabled() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.ColorEnabled, f.c.ColorEnabled, defaultFileConfig.ColorEnabled)
}

func (f *File) TemperatureUnit() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.temperatureUnit()
}

func (f *File) Language() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.Language, f.c.Language, defaultFileConfig.Language)
}

func (f *File) Preferences() Preferences {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return Preferences{
		ProcessRowCount: f.processRowCount(),
		TimeFormat:      f.timeFormat(),
		ColorEnabled:    pick(f.env.ColorEnabled, f.c.ColorEnabled, defaultFileConfig.ColorEnabled),
		TemperatureUnit: f.temperatureUnit(),
		Language:        pick(f.env.Language, f.c.Language, defaultFileConfig.Language),
	}
}

func (f *File) processRowCount() int {
	n := pick(f.env.ProcessRowCount, f.c.ProcessRowCount, defaultFileConfig.ProcessRowCount)
	if n < 0 {
		return 0
	}
	if n > MaxProcessRowCount {
		return MaxProcessRowCount
	}
	return n
}

func (f *File) timeFormat() string {
	if pick(f.env.TimeFormat, f.c.TimeFormat, defaultFileConfig.TimeFormat) == TimeFormatLong {
		return TimeFormatLong
	}
	return TimeFormatShort
}

func (f *File) temperatureUnit() string {
	if pick(f.env.TemperatureUnit, f.c.TemperatureUnit, defaultFileConfig.TemperatureUnit) == TemperatureFahrenheit {
		return TemperatureFahrenheit
	}
	return TemperatureCelsius
}

func (f *File) SetProcessRowCount(n int) {
	if f.c == nil {
		panic("config is nil")
	}

	if n < 0 || n > MaxProcessRowCount {
		panic("process row count out of range")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ProcessRowCount = &n
}

func (f *File) SetTimeFormat(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	if s != TimeFormatShort && s != TimeFormatLong {
		panic("time format must be short or long")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.TimeFormat = &s
}

func (f *File) SetColorEnabled(b bool) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ColorEnabled = &b
}

func (f *File) SetTemperatureUnit(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	if s != TemperatureCelsius && s != TemperatureFahrenheit {
		panic("temperature unit must be celsius or fahrenheit")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.TemperatureUnit = &s
}

func (f *File) SetLanguage(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Language = &s
}

func (f *File) isTOML() bool {
	return strings.EqualFold(filepath.Ext(f.filepath), ".toml")
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	overrides := RawFileConfig{}
	if err := env.Parse(&overrides); err != nil {
		return pkgerrors.Wrapf(err, "failed to parse environment overrides")
	}
	f.env = overrides

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if f.isTOML() {
		err = toml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}
	if f.filepath == "" {
		return pkgerrors.New("config has no file path")
	}

	var b []byte
	var err error
	if f.isTOML() {
		b, err = toml.Marshal(*f.c)
	} else {
		b, err = json.MarshalIndent(f.c, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config for file %s", f.filepath)
	}

	if err := os.MkdirAll(filepath.Dir(f.filepath), 0o755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory for %s", f.filepath)
	}

	err = os.WriteFile(f.filepath, b, 0o644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to write file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"processes":       f.ProcessRowCount(),
		"timeFormat":      f.TimeFormat(),
		"color":           f.ColorEnabled(),
		"temperatureUnit": f.TemperatureUnit(),
		"language":        f.Language(),
	}
}
