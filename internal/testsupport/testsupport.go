// Package testsupport provides shared fixtures for docscan tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"docscan/internal/config"
	"docscan/internal/doctype"
	"docscan/internal/session"
)

// NewConfig returns a validated configuration rooted in a per-test temp
// directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// MustOpenStore opens the session store for cfg and closes it when the
// test finishes.
func MustOpenStore(t *testing.T, cfg *config.Config) *session.Store {
	t.Helper()

	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// NewSession returns a minimal running session over the given folder
// tasks.
func NewSession(folders ...*session.FolderTask) *session.Session {
	return &session.Session{
		ID:        uuid.NewString(),
		Status:    session.StatusRunning,
		Engine:    "offline",
		BatchMode: session.BatchSequential,
		AutoSave:  true,
		Folders:   folders,
	}
}

// GCNPage builds a pending certificate page with the given evidence, the
// shape classification tests care about.
func GCNPage(name, color, issueDate string, dateConfidence doctype.DateConfidence) session.FileResult {
	return session.FileResult{
		FilePath:   "/scans/folder/" + name,
		FileName:   name,
		FolderPath: "/scans/folder",
		ShortCode:  doctype.CodeGCN,
		DocType:    string(doctype.CodeGCN),
		Confidence: 0.9,
		Metadata: doctype.PageMetadata{
			Color:               color,
			IssueDate:           issueDate,
			IssueDateConfidence: dateConfidence,
		},
	}
}

// Page builds a recognized page with an arbitrary short code.
func Page(name string, code doctype.ShortCode, confidence float64) session.FileResult {
	return session.FileResult{
		FilePath:   "/scans/folder/" + name,
		FileName:   name,
		FolderPath: "/scans/folder",
		ShortCode:  code,
		DocType:    string(code),
		Confidence: confidence,
	}
}

// WriteScanFolder creates a directory containing empty files with the
// given names and returns its path.
func WriteScanFolder(t *testing.T, name string, files ...string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create scan folder: %v", err)
	}
	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte("x"), 0o644); err != nil {
			t.Fatalf("write scan file: %v", err)
		}
	}
	return dir
}
