package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"docscan/internal/config"
	"docscan/internal/doctype"
)

// Store manages scan-session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the session database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying connection for collaborators sharing the
// database (the settings store).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save persists the full session state: the session row is upserted and
// folder tasks plus file results are replaced wholesale (last write wins).
// Preview bytes are never written.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	sess.LastSavedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO scan_sessions (id, status, engine, batch_mode, auto_save, root_path, created_at, last_saved_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             status = excluded.status,
             engine = excluded.engine,
             batch_mode = excluded.batch_mode,
             auto_save = excluded.auto_save,
             root_path = excluded.root_path,
             last_saved_at = excluded.last_saved_at`,
		sess.ID,
		string(sess.Status),
		sess.Engine,
		string(sess.BatchMode),
		boolToInt(sess.AutoSave),
		nullableString(sess.RootPath),
		sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		sess.LastSavedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM folder_tasks WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("clear folder tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM file_results WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("clear file results: %w", err)
	}

	for position, task := range sess.Folders {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO folder_tasks (session_id, position, path, name, image_count, status)
             VALUES (?, ?, ?, ?, ?, ?)`,
			sess.ID,
			position,
			task.Path,
			task.Name,
			task.ImageCount,
			string(task.Status),
		); err != nil {
			return fmt.Errorf("insert folder task %s: %w", task.Path, err)
		}
		for filePos, file := range task.Files {
			if err := insertFileResult(ctx, tx, sess.ID, task.Path, filePos, file); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func insertFileResult(ctx context.Context, tx *sql.Tx, sessionID, folderPath string, position int, file FileResult) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO file_results (
            session_id, folder_path, position, file_path, file_name,
            short_code, doc_type, confidence, color, issue_date,
            issue_date_confidence, method, page_number, total_pages,
            original_short_code, original_confidence, applied_sequential,
            reasoning, classification_note
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		folderPath,
		position,
		file.FilePath,
		file.FileName,
		string(file.ShortCode),
		nullableString(file.DocType),
		file.Confidence,
		nullableString(file.Metadata.Color),
		nullableString(file.Metadata.IssueDate),
		nullableString(string(file.Metadata.IssueDateConfidence)),
		nullableString(file.Method),
		nullableInt(file.PageNumber),
		nullableInt(file.TotalPages),
		nullableString(string(file.OriginalShortCode)),
		nullableFloat(file.OriginalConfidence),
		boolToInt(file.AppliedSequential),
		nullableString(file.Reasoning),
		nullableString(file.ClassificationNote),
	)
	if err != nil {
		return fmt.Errorf("insert file result %s: %w", file.FilePath, err)
	}
	return nil
}

// Get fetches one session with its folder tasks and file results.
// Returns nil when no session has the given id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.loadSessionRow(ctx, id)
	if sess == nil || err != nil {
		return nil, err
	}
	if err := s.loadFolders(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.loadFiles(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// List returns session summaries (folder tasks loaded, file results not)
// matching the given statuses, oldest first. No statuses means all.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM scan_sessions`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if err := s.loadFolders(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// ListIncomplete returns sessions that can be resumed.
func (s *Store) ListIncomplete(ctx context.Context) ([]*Session, error) {
	return s.List(ctx, StatusRunning, StatusIncomplete)
}

// Delete removes a session and its dependent rows.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scan_sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) loadSessionRow(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM scan_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *Store) loadFolders(ctx context.Context, sess *Session) error {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT path, name, image_count, status FROM folder_tasks WHERE session_id = ? ORDER BY position`,
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("load folder tasks: %w", err)
	}
	defer rows.Close()

	sess.Folders = nil
	for rows.Next() {
		task := &FolderTask{}
		var statusStr string
		if err := rows.Scan(&task.Path, &task.Name, &task.ImageCount, &statusStr); err != nil {
			return err
		}
		task.Status = FolderStatus(statusStr)
		sess.Folders = append(sess.Folders, task)
	}
	return rows.Err()
}

func (s *Store) loadFiles(ctx context.Context, sess *Session) error {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT folder_path, file_path, file_name, short_code, doc_type, confidence,
                color, issue_date, issue_date_confidence, method, page_number, total_pages,
                original_short_code, original_confidence, applied_sequential,
                reasoning, classification_note
         FROM file_results WHERE session_id = ? ORDER BY folder_path, position`,
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("load file results: %w", err)
	}
	defer rows.Close()

	byFolder := make(map[string]*FolderTask, len(sess.Folders))
	for _, task := range sess.Folders {
		byFolder[task.Path] = task
	}

	for rows.Next() {
		var (
			folderPath     string
			file           FileResult
			docType        sql.NullString
			color          sql.NullString
			issueDate      sql.NullString
			dateConfidence sql.NullString
			method         sql.NullString
			pageNumber     sql.NullInt64
			totalPages     sql.NullInt64
			originalCode   sql.NullString
			originalConf   sql.NullFloat64
			appliedSeq     sql.NullInt64
			reasoning      sql.NullString
			note           sql.NullString
			shortCodeStr   string
		)
		if err := rows.Scan(
			&folderPath,
			&file.FilePath,
			&file.FileName,
			&shortCodeStr,
			&docType,
			&file.Confidence,
			&color,
			&issueDate,
			&dateConfidence,
			&method,
			&pageNumber,
			&totalPages,
			&originalCode,
			&originalConf,
			&appliedSeq,
			&reasoning,
			&note,
		); err != nil {
			return err
		}
		file.FolderPath = folderPath
		file.ShortCode = doctype.ShortCode(shortCodeStr)
		file.DocType = docType.String
		file.Metadata = doctype.PageMetadata{
			Color:               color.String,
			IssueDate:           issueDate.String,
			IssueDateConfidence: doctype.DateConfidence(dateConfidence.String),
		}
		file.Method = method.String
		file.PageNumber = int(pageNumber.Int64)
		file.TotalPages = int(totalPages.Int64)
		file.OriginalShortCode = doctype.ShortCode(originalCode.String)
		file.OriginalConfidence = originalConf.Float64
		file.AppliedSequential = appliedSeq.Int64 != 0
		file.Reasoning = reasoning.String
		file.ClassificationNote = note.String

		task := byFolder[folderPath]
		if task == nil {
			// Folder row missing (historical record); keep the result
			// attached to a synthetic task so nothing is dropped.
			task = &FolderTask{Path: folderPath, Name: filepath.Base(folderPath), Status: FolderDone}
			byFolder[folderPath] = task
			sess.Folders = append(sess.Folders, task)
		}
		task.Files = append(task.Files, file)
	}
	return rows.Err()
}

const sessionColumns = "id, status, engine, batch_mode, auto_save, root_path, created_at, last_saved_at"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		sess       Session
		statusStr  string
		modeStr    string
		autoSave   sql.NullInt64
		rootPath   sql.NullString
		createdRaw sql.NullString
		savedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&sess.ID,
		&statusStr,
		&sess.Engine,
		&modeStr,
		&autoSave,
		&rootPath,
		&createdRaw,
		&savedRaw,
	); err != nil {
		return nil, err
	}
	sess.Status = Status(statusStr)
	sess.BatchMode = BatchMode(modeStr)
	sess.AutoSave = autoSave.Int64 != 0
	sess.RootPath = rootPath.String
	if created, err := parseTimeString(createdRaw.String); err == nil {
		sess.CreatedAt = created
	}
	if saved, err := parseTimeString(savedRaw.String); err == nil {
		sess.LastSavedAt = saved
	}
	return &sess, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
