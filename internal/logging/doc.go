// Package logging wires log/slog with a console key=value handler and a
// JSON handler, plus typed attribute helpers and the standardized field
// names used across the scanner.
package logging
