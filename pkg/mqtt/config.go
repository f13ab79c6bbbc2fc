package mqtt

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

// Config selects the broker the bridge publishes to. An empty Broker
// disables the bridge.
type Config struct {
	Broker   string        `env:"BATTPANEL_MQTT_BROKER"`
	Topic    string        `env:"BATTPANEL_MQTT_TOPIC" envDefault:"battpanel"`
	ClientID string        `env:"BATTPANEL_MQTT_CLIENT_ID"`
	Username string        `env:"BATTPANEL_MQTT_USERNAME"`
	Password string        `env:"BATTPANEL_MQTT_PASSWORD"`
	Timeout  time.Duration `env:"BATTPANEL_MQTT_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads the bridge settings from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, pkgerrors.Wrapf(err, "failed to parse mqtt settings")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "battpanel-" + uuid.NewString()
	}
	return cfg, nil
}

func (c Config) Enabled() bool {
	return c.Broker != ""
}
