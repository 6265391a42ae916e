package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gastrolog/internal/flagx"
)

// parseFlags overlays flags:
//
//	-s string     server base URL
//	-d string     local database path
//	-t duration   per-request timeout
//	-p string     reconcile policy: give-up or backoff
//	-b duration   first backoff delay for the backoff policy
//	-l string     log file
//	-m string     model passed to /api/analyze
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-t", "-p", "-b", "-l", "-m"})

	fs := flag.NewFlagSet("gastrolog", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.ReconcilePolicy, "p", cfg.ReconcilePolicy, "reconcile failure policy (give-up|backoff)")
	fs.DurationVar(&cfg.ReconcileBackoff, "b", cfg.ReconcileBackoff, "first reconcile retry delay")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.DefaultModel, "m", cfg.DefaultModel, "analysis model")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
