// Package services provides the shared error taxonomy and context
// annotations used by the recognizer adapter and the scan orchestrator.
package services
