package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gastrolog/internal/flagx"
	"github.com/dmitrijs2005/gastrolog/internal/timex"
)

type jsonConfig struct {
	ServerURL        string         `json:"server_url"`
	DatabasePath     string         `json:"database_path"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	ReconcilePolicy  string         `json:"reconcile_policy"`
	ReconcileBackoff timex.Duration `json:"reconcile_backoff"`
	AuthTokenURL     string         `json:"auth_token_url"`
	AuthClientID     string         `json:"auth_client_id"`
	LogFile          string         `json:"log_file"`
	LogMaxSizeMB     int            `json:"log_max_size_mb"`
	LogMaxBackups    int            `json:"log_max_backups"`
	DefaultModel     string         `json:"default_model"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.ReconcilePolicy, jc.ReconcilePolicy)
	setString(&cfg.AuthTokenURL, jc.AuthTokenURL)
	setString(&cfg.AuthClientID, jc.AuthClientID)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.DefaultModel, jc.DefaultModel)
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ReconcileBackoff.Duration != 0 {
		cfg.ReconcileBackoff = jc.ReconcileBackoff.Duration
	}
	if jc.LogMaxSizeMB != 0 {
		cfg.LogMaxSizeMB = jc.LogMaxSizeMB
	}
	if jc.LogMaxBackups != 0 {
		cfg.LogMaxBackups = jc.LogMaxBackups
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
