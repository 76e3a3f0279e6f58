package orchestrator

import (
	"sync"

	"docscan/internal/session"
)

// EditLocks coordinates the scan loop with an operator reviewing results.
// While a folder is locked for editing, freshly scanned results for that
// folder land in a side buffer instead of overwriting the operator's view;
// Unlock drains the buffer so the caller can merge the held results.
type EditLocks struct {
	mu      sync.Mutex
	locked  map[string]bool
	pending map[string][]session.FileResult
}

// NewEditLocks returns an empty lock registry.
func NewEditLocks() *EditLocks {
	return &EditLocks{
		locked:  make(map[string]bool),
		pending: make(map[string][]session.FileResult),
	}
}

// Lock marks a folder as being edited. Idempotent.
func (l *EditLocks) Lock(folderPath string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked[folderPath] = true
}

// Locked reports whether a folder is currently being edited.
func (l *EditLocks) Locked(folderPath string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked[folderPath]
}

// Deliver hands scan results for a folder to the registry. It returns
// true when the folder is free and the results should be applied
// directly; otherwise the results are buffered (last delivery wins) until
// Unlock.
func (l *EditLocks) Deliver(folderPath string, files []session.FileResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.locked[folderPath] {
		return true
	}
	l.pending[folderPath] = files
	return false
}

// Unlock releases a folder and returns any results buffered while it was
// locked. The second result reports whether buffered results exist.
func (l *EditLocks) Unlock(folderPath string) ([]session.FileResult, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locked, folderPath)
	files, ok := l.pending[folderPath]
	delete(l.pending, folderPath)
	return files, ok
}
