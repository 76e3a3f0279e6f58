// Package config loads, normalizes, and validates the TOML configuration
// for the document scanner.
package config
