package main

import (
	"log/slog"
	"strings"
	"sync"

	"docscan/internal/config"
	"docscan/internal/logging"
	"docscan/internal/orchestrator"
	"docscan/internal/recognizer"
	"docscan/internal/session"
	"docscan/internal/settings"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the session database for the duration of one command.
func (c *commandContext) withStore(fn func(cfg *config.Config, store *session.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := session.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg)
}

// buildManager wires the scan manager with the production recognizer and
// a console progress sink.
func buildManager(cfg *config.Config, store *session.Store, logger *slog.Logger, engine string) (*orchestrator.Manager, error) {
	opts := []recognizer.Option{recognizer.WithLogger(logger)}
	if engine != "" {
		opts = append(opts, recognizer.WithEngine(engine))
	}
	client, err := recognizer.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return orchestrator.NewManager(cfg, store, client, logger, newConsoleSink()), nil
}

func settingsStore(store *session.Store) *settings.Store {
	return settings.New(store.DB())
}
