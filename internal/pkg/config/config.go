package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	AuthModeToken       = "token"
	AuthModeCredentials = "credentials"
)

var (
	ErrMissingToken       = errors.New("auth token must be provided when using token authentication mode")
	ErrMissingCredentials = errors.New("username and password must be provided when using credentials authentication mode")
	ErrUnknownAuthMode    = errors.New("unknown authentication mode")
	ErrMissingInfluxDB    = errors.New("influxdb url, token, org and bucket must all be provided")
)

type Config struct {
	VrmCfg             *VrmConfig
	InfluxCfg          *InfluxConfig
	MqttCfg            *MqttConfig
	DatabaseURL        string
	MigrationsFolder   string
	HTTPAddress        string
	CollectionInterval time.Duration
	LogLevel           string
}

type VrmConfig struct {
	AuthMode string
	Token    string
	Username string
	Password string

	BaseURL        string
	TokenCachePath string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
}

// InfluxConfig is the primary sink. All fields are required.
type InfluxConfig struct {
	URL    string `env:"INFLUXDB_URL"`
	Token  string `env:"INFLUXDB_TOKEN"`
	Org    string `env:"INFLUXDB_ORG"`
	Bucket string `env:"INFLUXDB_BUCKET"`
}

// MqttConfig is optional; the mqtt sink is only registered when Host is set.
type MqttConfig struct {
	Host     string `env:"MQTT_HOST"`
	Username string `env:"MQTT_USER"`
	Password string `env:"MQTT_PASS"`
}

// SinksFromEnv parses the sink configuration blocks from the process environment.
func SinksFromEnv() (*InfluxConfig, *MqttConfig, error) {
	influxCfg := &InfluxConfig{}
	if err := env.Parse(influxCfg); err != nil {
		return nil, nil, err
	}
	mqttCfg := &MqttConfig{}
	if err := env.Parse(mqttCfg); err != nil {
		return nil, nil, err
	}
	return influxCfg, mqttCfg, nil
}

// Validate normalises the auth mode and enforces the auth invariants.
// When no mode is given the token mode is preferred if a token is set,
// mirroring how the daemon has historically been deployed.
func (c *VrmConfig) Validate() error {
	if c.AuthMode == "" {
		if c.Token != "" {
			c.AuthMode = AuthModeToken
		} else {
			c.AuthMode = AuthModeCredentials
		}
	}
	switch c.AuthMode {
	case AuthModeToken:
		if c.Token == "" {
			return ErrMissingToken
		}
	case AuthModeCredentials:
		if c.Username == "" || c.Password == "" {
			return ErrMissingCredentials
		}
	default:
		return ErrUnknownAuthMode
	}
	return nil
}

func (c *InfluxConfig) Validate() error {
	if c.URL == "" || c.Token == "" || c.Org == "" || c.Bucket == "" {
		return ErrMissingInfluxDB
	}
	return nil
}
