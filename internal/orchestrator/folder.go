package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"docscan/internal/classify"
	"docscan/internal/doctype"
	"docscan/internal/fsutil"
	"docscan/internal/logging"
	"docscan/internal/naming"
	"docscan/internal/recognizer"
	"docscan/internal/services"
	"docscan/internal/session"
)

const (
	// fixedBatchMin is the image count below which fixed batch mode falls
	// back to per-file calls; batching one image has no payoff.
	fixedBatchMin = 2
	// smartBatchMin is the image count below which smart mode stays
	// sequential.
	smartBatchMin = 3
	// smartChunkSize caps one smart-mode engine call.
	smartChunkSize = 10
)

// scanFolder recognizes every candidate file of one folder, applies the
// sequential-naming carry-forward in page order, and resolves the GCN
// family once the folder is complete.
func (m *Manager) scanFolder(ctx context.Context, sess *session.Session, task *session.FolderTask) error {
	ctx = services.WithFolder(ctx, task.Path)
	logger := logging.WithContext(ctx, m.logger)

	task.Status = session.FolderScanning

	files, err := fsutil.CandidateFiles(task.Path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Info("folder has no scannable files")
		task.Files = nil
		task.Status = session.FolderDone
		return nil
	}

	var images []string
	for _, file := range files {
		if fsutil.IsImage(file) {
			images = append(images, file)
		}
	}

	// Batch calls run first and stash their per-file results; the ordered
	// pass below consumes them so page adjacency stays intact for the
	// sequential-naming carry-forward.
	prefetched := make(map[string][]session.FileResult, len(images))
	if mode, ok := m.batchEligible(sess.BatchMode, len(images)); ok {
		if err := m.recognizeBatches(ctx, task.Path, images, mode, prefetched); err != nil {
			return err
		}
	}

	// The stop signal is only honored here, between files: an in-flight
	// engine call always finishes (or times out) and its pages are kept.
	var ordered []session.FileResult
	var last *naming.LastKnown
	for _, file := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		pages, ok := prefetched[file]
		if !ok {
			pages = m.recognizeSingle(ctx, sess, task.Path, file)
		}
		for _, page := range pages {
			resolved := naming.Resolve(page, last)
			last = naming.Advance(last, resolved)
			ordered = append(ordered, resolved)
			m.sink.FileRecognized(task.Path, resolved)
		}
	}

	final := classify.Resolve(ordered)
	if m.editLocks.Deliver(task.Path, final) {
		task.Files = final
	} else {
		logger.Info("folder locked for editing, results buffered")
	}
	task.Status = session.FolderDone

	logger.Info("folder scanned",
		logging.Int("files", len(files)),
		logging.Int("pages", len(final)),
	)
	return nil
}

// ReleaseFolder unlocks a folder edited through an interactive frontend
// and merges any scan results buffered while the lock was held.
func (m *Manager) ReleaseFolder(sess *session.Session, folderPath string) {
	buffered, ok := m.editLocks.Unlock(folderPath)
	if !ok {
		return
	}
	if task := sess.FolderByPath(folderPath); task != nil {
		task.Files = buffered
	}
}

// batchEligible decides whether the folder's images justify a batch call.
func (m *Manager) batchEligible(mode session.BatchMode, imageCount int) (session.BatchMode, bool) {
	if !recognizer.SupportsBatch(m.rec.Engine()) {
		return "", false
	}
	switch mode {
	case session.BatchFixed:
		return mode, imageCount >= fixedBatchMin
	case session.BatchSmart:
		return mode, imageCount >= smartBatchMin
	default:
		return "", false
	}
}

// recognizeBatches issues batch calls over the folder's images and stores
// the per-file results. A failed batch is logged and its images are left
// out of the map, so the ordered pass retries them individually.
// Cancellation is observed between chunks, never inside a call.
func (m *Manager) recognizeBatches(ctx context.Context, folderPath string, images []string, mode session.BatchMode, out map[string][]session.FileResult) error {
	method := "batch_fixed"
	chunk := len(images)
	if mode == session.BatchSmart {
		method = "batch_smart"
		chunk = smartChunkSize
	}

	logger := logging.WithContext(ctx, m.logger)
	for start := 0; start < len(images); start += chunk {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		end := min(start+chunk, len(images))
		paths := images[start:end]

		callCtx := context.WithoutCancel(services.WithRequestID(ctx, newRequestID()))
		pages, err := m.rec.Recognize(callCtx, paths, recognizer.ModeBatch)
		if err != nil {
			logger.Warn("batch recognition failed, falling back to single calls",
				logging.Int("images", len(paths)),
				logging.Error(err),
			)
			continue
		}
		for i, page := range pages {
			result := m.resultFromPage(page, paths[i], folderPath, method)
			out[paths[i]] = append(out[paths[i]], result)
		}
	}
	return nil
}

// recognizeSingle recognizes one file and returns its page results. A
// failed call yields a single ERROR row instead of aborting the folder.
func (m *Manager) recognizeSingle(ctx context.Context, sess *session.Session, folderPath, file string) []session.FileResult {
	method := sess.Engine + "_ocr"
	if fsutil.IsPDF(file) {
		method = "single_pdf_page"
	}

	callCtx := context.WithoutCancel(services.WithRequestID(services.WithFile(ctx, file), newRequestID()))
	pages, err := m.rec.Recognize(callCtx, []string{file}, recognizer.ModeSingle)
	if err != nil {
		logging.WithContext(callCtx, m.logger).Warn("recognition failed",
			logging.Error(err),
		)
		return []session.FileResult{m.errorResult(file, folderPath, method, err)}
	}

	results := make([]session.FileResult, 0, len(pages))
	for _, page := range pages {
		results = append(results, m.resultFromPage(page, file, folderPath, method))
	}
	return results
}

// resultFromPage maps one engine page object onto the persisted result
// shape, collapsing unknown engine tags to the closed vocabulary.
func (m *Manager) resultFromPage(page recognizer.PageResult, requestedPath, folderPath, method string) session.FileResult {
	path := page.FilePath
	if path == "" {
		path = requestedPath
	}
	result := session.FileResult{
		FilePath:   path,
		FileName:   filepath.Base(path),
		FolderPath: folderPath,
		Method:     method,
		PageNumber: page.PageNumber,
		TotalPages: page.TotalPages,
		Reasoning:  page.Reasoning,
	}
	if !page.Success {
		result.ShortCode = doctype.CodeError
		result.DocType = string(doctype.CodeError)
		if page.Error != "" {
			result.Reasoning = page.Error
		}
		return result
	}

	result.ShortCode = doctype.ParseShortCode(page.ShortCode)
	result.DocType = page.DocType
	if result.DocType == "" {
		result.DocType = string(result.ShortCode)
	}
	result.Confidence = page.Confidence
	result.Metadata = doctype.PageMetadata{
		Color:               page.Metadata.Color,
		IssueDate:           page.Metadata.IssueDate,
		IssueDateConfidence: doctype.ParseDateConfidence(page.Metadata.IssueDateConfidence),
	}
	return result
}

func (m *Manager) errorResult(file, folderPath, method string, err error) session.FileResult {
	return session.FileResult{
		FilePath:   file,
		FileName:   filepath.Base(file),
		FolderPath: folderPath,
		ShortCode:  doctype.CodeError,
		DocType:    string(doctype.CodeError),
		Method:     method,
		Reasoning:  fmt.Sprintf("recognition call failed: %v", err),
	}
}
