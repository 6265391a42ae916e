package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ServerURL        string
	DatabasePath     string
	RequestTimeout   time.Duration
	ReconcilePolicy  string
	ReconcileBackoff time.Duration
	AuthTokenURL     string
	AuthClientID     string
	LogFile          string
	LogMaxSizeMB     int
	LogMaxBackups    int
	DefaultModel     string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "gastrolog.db"
	c.RequestTimeout = 15 * time.Second
	c.ReconcilePolicy = "give-up"
	c.ReconcileBackoff = 5 * time.Second
	c.AuthClientID = "gastrolog-cli"
	c.LogFile = "gastrolog.log"
	c.LogMaxSizeMB = 10
	c.LogMaxBackups = 3
}

func (c *Config) Validate() error {
	switch {
	case c.ServerURL == "":
		return fmt.Errorf("%w: server_url is empty", ErrInvalidConfig)
	case c.DatabasePath == "":
		return fmt.Errorf("%w: database_path is empty", ErrInvalidConfig)
	case c.RequestTimeout < 0:
		return fmt.Errorf("%w: request_timeout is negative", ErrInvalidConfig)
	case c.ReconcilePolicy != "give-up" && c.ReconcilePolicy != "backoff":
		return fmt.Errorf("%w: reconcile_policy %q", ErrInvalidConfig, c.ReconcilePolicy)
	}
	return nil
}

// LoadConfig builds the configuration from defaults, the JSON file and
// flags found in args (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
