package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Recognizer.Binary = strings.TrimSpace(c.Recognizer.Binary)
	c.Recognizer.Engine = strings.TrimSpace(c.Recognizer.Engine)
	c.Scan.BatchMode = strings.ToLower(strings.TrimSpace(c.Scan.BatchMode))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
