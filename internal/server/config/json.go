package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gastrolog/internal/flagx"
	"github.com/dmitrijs2005/gastrolog/internal/timex"
)

// jsonConfig is the on-disk shape of the server configuration. Durations
// accept "10s" or integer nanoseconds.
type jsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	JWTSecret       string         `json:"jwt_secret"`
	FrontendURL     string         `json:"frontend_url"`
	Classifier      string         `json:"classifier"`
	GeminiAPIKey    string         `json:"gemini_api_key"`
	AnthropicAPIKey string         `json:"anthropic_api_key"`
	DefaultModel    string         `json:"default_model"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	MaxBodyBytes    int64          `json:"max_body_bytes"`
}

// parseJSON overlays non-empty values from the file named by -c/-config
// (or the config env variable). No file means nothing to load.
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

	for _, f := range []struct {
		dst *string
		v   string
	}{
		{&cfg.ListenAddr, jc.ListenAddr},
		{&cfg.DatabaseDSN, jc.DatabaseDSN},
		{&cfg.JWTSecret, jc.JWTSecret},
		{&cfg.FrontendURL, jc.FrontendURL},
		{&cfg.Classifier, jc.Classifier},
		{&cfg.GeminiAPIKey, jc.GeminiAPIKey},
		{&cfg.AnthropicAPIKey, jc.AnthropicAPIKey},
		{&cfg.DefaultModel, jc.DefaultModel},
		{&cfg.S3AccessKey, jc.S3AccessKey},
		{&cfg.S3SecretKey, jc.S3SecretKey},
		{&cfg.S3Bucket, jc.S3Bucket},
		{&cfg.S3Region, jc.S3Region},
		{&cfg.S3BaseEndpoint, jc.S3BaseEndpoint},
	} {
		if f.v != "" {
			*f.dst = f.v
		}
	}
	if jc.ShutdownTimeout.Duration != 0 {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
	if jc.MaxBodyBytes != 0 {
		cfg.MaxBodyBytes = jc.MaxBodyBytes
	}
	return nil
}
