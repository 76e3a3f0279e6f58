package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateRecognizer() error {
	if c.Recognizer.Binary == "" {
		return errors.New("recognizer.binary must be set")
	}
	if c.Recognizer.Engine == "" {
		return errors.New("recognizer.engine must be set")
	}
	return ensurePositiveMap(map[string]int{
		"recognizer.single_timeout":            c.Recognizer.SingleTimeout,
		"recognizer.batch_timeout":             c.Recognizer.BatchTimeout,
		"recognizer.breaker_failure_threshold": c.Recognizer.BreakerFailureThreshold,
		"recognizer.breaker_cooldown":          c.Recognizer.BreakerCooldown,
	})
}

func (c *Config) validateScan() error {
	switch c.Scan.BatchMode {
	case "sequential", "fixed", "smart":
		return nil
	default:
		return fmt.Errorf("scan.batch_mode must be one of sequential, fixed, smart (got %q)", c.Scan.BatchMode)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive (got %d)", name, value)
		}
	}
	return nil
}
