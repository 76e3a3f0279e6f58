package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"docscan/internal/config"
	"docscan/internal/fsutil"
	"docscan/internal/logging"
	"docscan/internal/recognizer"
	"docscan/internal/services"
	"docscan/internal/session"
)

// Recognizer is the engine surface the orchestrator depends on. The
// production implementation is *recognizer.Client.
type Recognizer interface {
	Recognize(ctx context.Context, paths []string, mode recognizer.Mode) ([]recognizer.PageResult, error)
	Engine() string
}

// SessionOptions captures the per-session behavior knobs.
type SessionOptions struct {
	Engine    string
	BatchMode session.BatchMode
	AutoSave  bool
	// RootPath records where the folder list came from (directory or
	// manifest); informational.
	RootPath string
}

// Manager owns the scan loop for one process.
type Manager struct {
	cfg       *config.Config
	store     *session.Store
	rec       Recognizer
	logger    *slog.Logger
	sink      ProgressSink
	editLocks *EditLocks

	// pdfPages counts the pages of a PDF; seam for tests.
	pdfPages func(path string) (int, error)
}

// ManagerOption adjusts manager construction.
type ManagerOption func(*Manager)

// WithPageCounter overrides PDF page counting (primarily for tests).
func WithPageCounter(counter func(path string) (int, error)) ManagerOption {
	return func(m *Manager) {
		if counter != nil {
			m.pdfPages = counter
		}
	}
}

// NewManager wires a scan manager from its collaborators. A nil sink is
// replaced with a no-op one.
func NewManager(cfg *config.Config, store *session.Store, rec Recognizer, logger *slog.Logger, sink ProgressSink, opts ...ManagerOption) *Manager {
	if sink == nil {
		sink = NopSink{}
	}
	m := &Manager{
		cfg:       cfg,
		store:     store,
		rec:       rec,
		logger:    logging.NewComponentLogger(logger, "orchestrator"),
		sink:      sink,
		editLocks: NewEditLocks(),
		pdfPages:  recognizer.PageCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EditLocks exposes the per-folder edit-lock registry to interactive
// frontends.
func (m *Manager) EditLocks() *EditLocks {
	return m.editLocks
}

// NewSession builds a session over the given folders. Folders whose
// normalized base name repeats are skipped (first occurrence wins) and
// returned so the caller can report them; Vietnamese folder names arrive
// in mixed Unicode normalization forms depending on the scanner software.
func (m *Manager) NewSession(ctx context.Context, folders []string, opts SessionOptions) (*session.Session, []string, error) {
	if len(folders) == 0 {
		return nil, nil, services.Wrap(services.ErrValidation, "orchestrator", "new-session", "no folders to scan", nil)
	}

	sess := &session.Session{
		ID:        uuid.NewString(),
		Status:    session.StatusRunning,
		Engine:    opts.Engine,
		BatchMode: opts.BatchMode,
		AutoSave:  opts.AutoSave,
		RootPath:  opts.RootPath,
		CreatedAt: time.Now().UTC(),
	}

	seen := make(map[string]string, len(folders))
	var skipped []string
	for _, folder := range folders {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		if !fsutil.IsDir(folder) {
			skipped = append(skipped, folder)
			continue
		}
		key := norm.NFC.String(strings.ToLower(filepath.Base(folder)))
		if first, dup := seen[key]; dup {
			m.logger.Warn("duplicate folder name skipped",
				logging.String(logging.FieldFolder, folder),
				logging.String("kept", first),
			)
			skipped = append(skipped, folder)
			continue
		}
		seen[key] = folder

		count, err := m.countScanUnits(folder)
		if err != nil {
			return nil, nil, err
		}
		sess.Folders = append(sess.Folders, &session.FolderTask{
			Path:       folder,
			Name:       filepath.Base(folder),
			ImageCount: count,
			Status:     session.FolderPending,
		})
	}
	if len(sess.Folders) == 0 {
		return nil, skipped, services.Wrap(services.ErrValidation, "orchestrator", "new-session", "no valid folders to scan", nil)
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, skipped, fmt.Errorf("persist new session: %w", err)
	}
	return sess, skipped, nil
}

// countScanUnits totals the expected pages of a folder: one per image
// plus one per PDF page. An unreadable PDF counts as a single page rather
// than failing session creation.
func (m *Manager) countScanUnits(folder string) (int, error) {
	files, err := fsutil.CandidateFiles(folder)
	if err != nil {
		return 0, fmt.Errorf("inspect folder %s: %w", folder, err)
	}
	count := 0
	for _, file := range files {
		if fsutil.IsPDF(file) {
			pages, err := m.pdfPages(file)
			if err != nil {
				m.logger.Warn("could not read pdf page count",
					logging.String(logging.FieldFile, file),
					logging.Error(err),
				)
				pages = 1
			}
			count += pages
			continue
		}
		count++
	}
	return count, nil
}

// Resume loads a persisted session and continues it. Folders already done
// are never rescanned; pending folders that vanished from disk since the
// original run are marked done with a warning.
func (m *Manager) Resume(ctx context.Context, id string) (*session.Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, services.Wrap(services.ErrNotFound, "orchestrator", "resume",
			fmt.Sprintf("no session with id %s", id), nil)
	}
	if sess.Status == session.StatusComplete {
		return nil, services.Wrap(services.ErrValidation, "orchestrator", "resume",
			fmt.Sprintf("session %s is already complete", id), nil)
	}

	for _, task := range sess.Folders {
		if task.Status == session.FolderDone {
			continue
		}
		if !fsutil.IsDir(task.Path) {
			m.logger.Warn("folder missing on resume, skipping",
				logging.String(logging.FieldSessionID, sess.ID),
				logging.String(logging.FieldFolder, task.Path),
			)
			task.Status = session.FolderDone
		}
	}

	if err := m.Run(ctx, sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// Run executes the session's remaining folder tasks. State is saved after
// every folder when auto-save is on, and always once at the end. A second
// Run of the same session in another process is rejected via a lock file.
func (m *Manager) Run(ctx context.Context, sess *session.Session) error {
	release, err := m.acquireSessionLock(sess.ID)
	if err != nil {
		return err
	}
	defer release()

	ctx = services.WithSessionID(ctx, sess.ID)
	logger := logging.WithContext(ctx, m.logger)

	sess.Status = session.StatusRunning
	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}
	m.sink.SessionStarted(sess)

	logger.Info("scan session started",
		logging.String("engine", sess.Engine),
		logging.String("batch_mode", string(sess.BatchMode)),
		logging.Int("folders", len(sess.Folders)),
		logging.Int("completed", sess.CompletedFolders()),
	)

	var stopped bool
	var saveFailures int
	for index, task := range sess.Folders {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		if task.Status == session.FolderDone {
			continue
		}

		m.sink.FolderStarted(task, index+1, len(sess.Folders))
		if err := m.scanFolder(ctx, sess, task); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				stopped = true
				break
			}
			return err
		}
		m.sink.FolderCompleted(task)

		// A failed auto-save only costs resumability; the scan goes on and
		// the final save below retries the whole state.
		if sess.AutoSave {
			if err := m.store.Save(ctx, sess); err != nil {
				saveFailures++
				logger.Warn("auto-save failed, continuing scan",
					logging.String(logging.FieldFolder, task.Path),
					logging.Error(err),
				)
			}
		}
	}

	if stopped || !sess.AllDone() {
		sess.Status = session.StatusIncomplete
	} else {
		sess.Status = session.StatusComplete
	}
	// Final save runs detached from the scan context so cancellation never
	// loses completed work.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := m.store.Save(saveCtx, sess); err != nil {
		return err
	}
	m.sink.SessionFinished(sess)

	logger.Info("scan session stopped",
		logging.String("status", string(sess.Status)),
		logging.Int("completed", sess.CompletedFolders()),
		logging.Int("folders", len(sess.Folders)),
	)
	if saveFailures > 0 {
		logger.Warn("some folders could not be auto-saved during the run",
			logging.Int("save_failures", saveFailures),
			logging.String(logging.FieldErrorHint, "interrupting before the final save would have lost their results"),
		)
	}
	if stopped {
		return ctx.Err()
	}
	return nil
}

func newRequestID() string {
	return uuid.NewString()
}

func (m *Manager) acquireSessionLock(id string) (func(), error) {
	lockPath := filepath.Join(m.cfg.SessionLockDir(), id+".lock")
	lock := flock.New(lockPath)
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock %s: %w", lockPath, err)
	}
	if !held {
		return nil, services.Wrap(services.ErrValidation, "orchestrator", "run",
			fmt.Sprintf("session %s is already running in another process", id), nil)
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}
