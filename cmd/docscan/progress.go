package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"docscan/internal/doctype"
	"docscan/internal/orchestrator"
	"docscan/internal/session"
)

// consoleSink prints scan progress to stdout. Per-file lines are only
// emitted on a terminal; redirected output gets the folder-level summary.
type consoleSink struct {
	out         io.Writer
	interactive bool
}

func newConsoleSink() *consoleSink {
	return &consoleSink{
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdout.Fd()),
	}
}

func (s *consoleSink) SessionStarted(sess *session.Session) {
	fmt.Fprintf(s.out, "Session %s: %d folders (%d done)\n",
		sess.ID, len(sess.Folders), sess.CompletedFolders())
}

func (s *consoleSink) FolderStarted(task *session.FolderTask, index, total int) {
	fmt.Fprintf(s.out, "[%d/%d] %s (%d pages expected)\n", index, total, task.Name, task.ImageCount)
}

func (s *consoleSink) FileRecognized(_ string, result session.FileResult) {
	if !s.interactive {
		return
	}
	if result.IsError() {
		fmt.Fprintf(s.out, "  %-40s %s\n", result.FileName, doctype.DisplayLabel(doctype.CodeError))
		return
	}
	line := fmt.Sprintf("  %-40s %s (%.2f)", result.FileName, doctype.DisplayLabel(result.ShortCode), result.Confidence)
	if evidence := metadataSummary(result.Metadata); evidence != "" {
		line += " " + evidence
	}
	fmt.Fprintln(s.out, line)
}

// metadataSummary renders the certificate evidence behind a page line,
// e.g. "[red 15/03/1998]".
func metadataSummary(meta doctype.PageMetadata) string {
	var parts []string
	if meta.HasColor() {
		parts = append(parts, doctype.CanonicalColor(meta.Color))
	}
	if meta.HasIssueDate() {
		parts = append(parts, meta.IssueDate)
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (s *consoleSink) FolderCompleted(task *session.FolderTask) {
	errors := 0
	for _, file := range task.Files {
		if file.IsError() {
			errors++
		}
	}
	if errors > 0 {
		fmt.Fprintf(s.out, "  done: %d pages, %d errors\n", len(task.Files), errors)
		return
	}
	fmt.Fprintf(s.out, "  done: %d pages\n", len(task.Files))
}

func (s *consoleSink) SessionFinished(sess *session.Session) {
	fmt.Fprintf(s.out, "Session %s %s: %d/%d folders done\n",
		sess.ID, sess.Status, sess.CompletedFolders(), len(sess.Folders))
}

var _ orchestrator.ProgressSink = (*consoleSink)(nil)
