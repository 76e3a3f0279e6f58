package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"docscan/internal/session"
)

// Setting keys persisted in the settings table.
const (
	KeyEngine    = "engine"
	KeyBatchMode = "batch_mode"
	KeyAutoSave  = "auto_save_enabled"
)

// Store reads and writes settings in the session database.
type Store struct {
	db *sql.DB
}

// New wraps the shared session database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns a setting value and whether it was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts a setting value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// Engine returns the remembered engine id, or fallback when unset.
func (s *Store) Engine(ctx context.Context, fallback string) (string, error) {
	value, ok, err := s.Get(ctx, KeyEngine)
	if err != nil || !ok {
		return fallback, err
	}
	return value, nil
}

// SetEngine remembers the engine id for the next scan.
func (s *Store) SetEngine(ctx context.Context, engine string) error {
	return s.Set(ctx, KeyEngine, engine)
}

// BatchMode returns the remembered batch mode, or fallback when unset or
// unparsable.
func (s *Store) BatchMode(ctx context.Context, fallback session.BatchMode) (session.BatchMode, error) {
	value, ok, err := s.Get(ctx, KeyBatchMode)
	if err != nil || !ok {
		return fallback, err
	}
	if mode, ok := session.ParseBatchMode(value); ok {
		return mode, nil
	}
	return fallback, nil
}

// SetBatchMode remembers the batch mode for the next scan.
func (s *Store) SetBatchMode(ctx context.Context, mode session.BatchMode) error {
	return s.Set(ctx, KeyBatchMode, string(mode))
}

// AutoSaveEnabled returns the remembered auto-save preference, or
// fallback when unset.
func (s *Store) AutoSaveEnabled(ctx context.Context, fallback bool) (bool, error) {
	value, ok, err := s.Get(ctx, KeyAutoSave)
	if err != nil || !ok {
		return fallback, err
	}
	enabled, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		return fallback, nil
	}
	return enabled, nil
}

// SetAutoSaveEnabled remembers the auto-save preference.
func (s *Store) SetAutoSaveEnabled(ctx context.Context, enabled bool) error {
	return s.Set(ctx, KeyAutoSave, strconv.FormatBool(enabled))
}
