// Package settings is a small key/value store for user preferences
// (engine, batch mode, auto-save) persisted alongside scan sessions.
package settings
