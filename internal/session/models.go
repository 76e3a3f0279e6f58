package session

import (
	"strings"
	"time"

	"docscan/internal/doctype"
)

// Status represents the lifecycle of a scan session.
type Status string

const (
	StatusRunning    Status = "running"
	StatusIncomplete Status = "incomplete"
	StatusComplete   Status = "complete"
)

// ParseStatus converts a string into a known session Status.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusRunning:
		return StatusRunning, true
	case StatusIncomplete:
		return StatusIncomplete, true
	case StatusComplete:
		return StatusComplete, true
	default:
		return "", false
	}
}

// FolderStatus represents the lifecycle of one folder task. Transitions
// are monotonic: pending -> scanning -> done.
type FolderStatus string

const (
	FolderPending  FolderStatus = "pending"
	FolderScanning FolderStatus = "scanning"
	FolderDone     FolderStatus = "done"
)

// BatchMode selects how a folder's files are dispatched to the engine.
type BatchMode string

const (
	// BatchSequential issues one engine call per file.
	BatchSequential BatchMode = "sequential"
	// BatchFixed issues one batch call covering the whole folder.
	BatchFixed BatchMode = "fixed"
	// BatchSmart issues chunked batch calls sized by the engine adapter.
	BatchSmart BatchMode = "smart"
)

// ParseBatchMode converts a string into a known BatchMode.
func ParseBatchMode(value string) (BatchMode, bool) {
	switch BatchMode(strings.ToLower(strings.TrimSpace(value))) {
	case BatchSequential:
		return BatchSequential, true
	case BatchFixed:
		return BatchFixed, true
	case BatchSmart:
		return BatchSmart, true
	default:
		return "", false
	}
}

// FileResult is one recognized page.
type FileResult struct {
	FilePath   string               `json:"file_path"`
	FileName   string               `json:"file_name"`
	FolderPath string               `json:"folder_path"`
	ShortCode  doctype.ShortCode    `json:"short_code"`
	DocType    string               `json:"doc_type"`
	Confidence float64              `json:"confidence"`
	Metadata   doctype.PageMetadata `json:"metadata"`
	// Method is a provenance tag (offline_ocr, batch_fixed, batch_smart,
	// single_pdf_page). Informational only.
	Method     string `json:"method,omitempty"`
	PageNumber int    `json:"page_number,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`

	// Fields below are written by the resolvers.
	OriginalShortCode  doctype.ShortCode `json:"original_short_code,omitempty"`
	OriginalConfidence float64           `json:"original_confidence,omitempty"`
	AppliedSequential  bool              `json:"applied_sequential_logic,omitempty"`
	Reasoning          string            `json:"reasoning,omitempty"`
	ClassificationNote string            `json:"gcn_classification_note,omitempty"`

	// Preview holds render bytes for interactive inspection. It is never
	// persisted; resume regenerates previews on demand.
	Preview []byte `json:"-"`
}

// IsError reports whether the page records a failed recognition call.
func (r FileResult) IsError() bool {
	return r.ShortCode == doctype.CodeError
}

// FolderTask is one candidate directory within a session.
type FolderTask struct {
	Path string `json:"path"`
	Name string `json:"name"`
	// ImageCount is the expected page count: one per image file plus one
	// per PDF page.
	ImageCount int          `json:"image_count"`
	Status     FolderStatus `json:"status"`
	Files      []FileResult `json:"files,omitempty"`
}

// Session is one resumable batch job.
type Session struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Engine    string    `json:"engine"`
	BatchMode BatchMode `json:"batch_mode"`
	AutoSave  bool      `json:"auto_save"`
	// RootPath records the directory or manifest the folder list came from.
	RootPath    string        `json:"root_path,omitempty"`
	Folders     []*FolderTask `json:"folders"`
	CreatedAt   time.Time     `json:"created_at"`
	LastSavedAt time.Time     `json:"last_saved_at"`
}

// CompletedFolders counts folder tasks already done.
func (s *Session) CompletedFolders() int {
	done := 0
	for _, task := range s.Folders {
		if task.Status == FolderDone {
			done++
		}
	}
	return done
}

// AllDone reports whether every folder task has finished.
func (s *Session) AllDone() bool {
	return s.CompletedFolders() == len(s.Folders)
}

// FolderByPath returns the task for a folder path, if present.
func (s *Session) FolderByPath(path string) *FolderTask {
	for _, task := range s.Folders {
		if task.Path == path {
			return task
		}
	}
	return nil
}
