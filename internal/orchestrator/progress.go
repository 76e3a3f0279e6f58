package orchestrator

import "docscan/internal/session"

// ProgressSink receives scan lifecycle events. Implementations must be
// fast; the scan loop calls them synchronously.
type ProgressSink interface {
	SessionStarted(sess *session.Session)
	FolderStarted(task *session.FolderTask, index, total int)
	FileRecognized(folderPath string, result session.FileResult)
	FolderCompleted(task *session.FolderTask)
	SessionFinished(sess *session.Session)
}

// NopSink discards all progress events.
type NopSink struct{}

func (NopSink) SessionStarted(*session.Session)             {}
func (NopSink) FolderStarted(*session.FolderTask, int, int) {}
func (NopSink) FileRecognized(string, session.FileResult)   {}
func (NopSink) FolderCompleted(*session.FolderTask)         {}
func (NopSink) SessionFinished(*session.Session)            {}
