// Package flagx holds command-line helpers shared by the client and server
// configuration loaders.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigEnv names the environment variable consulted when no -c/-config flag
// is present.
const ConfigEnv = "GASTROLOG_CONFIG"

// FilterArgs keeps the allowedFlags of args together with their values, so
// the JSON, client and server flag sets can each parse the same command line.
// Flags match regardless of the number of leading dashes, as in package flag.
// A value is either joined with '=' or the next token when that token does
// not start with '-'. Scanning stops at "--".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = struct{}{}
	}

	out := []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, joined := strings.Cut(arg, "=")
		if _, ok := allowed[flagName(name)]; !ok {
			continue
		}
		out = append(out, arg)
		if !joined && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

func flagName(s string) string { return strings.TrimLeft(s, "-") }

// ConfigPath extracts the JSON config file path given via -c or -config.
// When neither flag is present it falls back to $GASTROLOG_CONFIG, and to
// "" when that is unset too.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("gastrolog-config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	return path
}
