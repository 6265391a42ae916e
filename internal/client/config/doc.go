// Package config loads the GastroLog client configuration.
//
// Values are layered: built-in defaults, then an optional JSON file named
// by -c/-config (or $GASTROLOG_CONFIG), then command-line flags. Later
// layers win; JSON keys left out or empty keep the previous value.
package config
