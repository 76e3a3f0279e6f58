// Package recognizer adapts the external optical-recognition engine.
// The engine is a separate process invoked per file (single mode) or per
// image set (batch mode); it prints one JSON result object per page on
// stdout. The adapter enforces hard per-call timeouts and trips a circuit
// breaker after repeated engine failures.
package recognizer
