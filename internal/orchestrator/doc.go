// Package orchestrator drives batch scan sessions: it builds the folder
// worklist, dispatches recognition calls in the configured batch mode,
// applies the sequential-naming and certificate-classification resolvers,
// and persists progress so an interrupted session resumes where it
// stopped.
package orchestrator
