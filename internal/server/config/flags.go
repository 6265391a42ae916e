package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gastrolog/internal/flagx"
)

// parseFlags overlays command-line flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret
//	-f string     frontend origin for CORS
//	-k string     classifier: gemini or anthropic
//	-m string     default model
//	-b string     S3 bucket (empty keeps images in the database)
//	-e string     S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-g string     S3 region
//	-t duration   shutdown grace period
//
// Only these flags are passed to the flag set; others are filtered out by
// flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-f", "-k", "-m", "-b", "-e", "-g", "-t"})

	fs := flag.NewFlagSet("gastrolog-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "JWT secret")
	fs.StringVar(&cfg.FrontendURL, "f", cfg.FrontendURL, "frontend origin")
	fs.StringVar(&cfg.Classifier, "k", cfg.Classifier, "classifier (gemini|anthropic)")
	fs.StringVar(&cfg.DefaultModel, "m", cfg.DefaultModel, "default model")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.DurationVar(&cfg.ShutdownTimeout, "t", cfg.ShutdownTimeout, "shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
