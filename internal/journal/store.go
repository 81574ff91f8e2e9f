package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ywbridge/internal/config"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// timeLayout is RFC3339 with a fixed-width fraction so stored timestamps
// order lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the journal database named by cfg.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.JournalPath())
}

// OpenPath initializes or connects to the journal database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
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
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends ev and fills in its ID and, when unset, its timestamp.
func (s *Store) Record(ctx context.Context, ev *Event) error {
	if ev == nil {
		return errors.New("event is nil")
	}
	if strings.TrimSpace(ev.SessionID) == "" || ev.Kind == "" || strings.TrimSpace(ev.ProjectPath) == "" {
		return errors.New("event requires session id, kind and project path")
	}
	ctx = ensureContext(ctx)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(
			ctx,
			`INSERT INTO events (
                session_id, kind, project_path, document_path, flavor,
                document_digest, project_digest, split, warnings, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.SessionID,
			string(ev.Kind),
			ev.ProjectPath,
			nullableString(ev.DocumentPath),
			nullableString(ev.Flavor),
			nullableString(ev.DocumentDigest),
			nullableString(ev.ProjectDigest),
			boolToInt(ev.Split),
			ev.Warnings,
			ev.CreatedAt.UTC().Format(timeLayout),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	ev.ID = id
	return nil
}

// LastForDocument returns the newest event touching documentPath, or nil
// when the document has no history.
func (s *Store) LastForDocument(ctx context.Context, documentPath string) (*Event, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+eventColumns+` FROM events WHERE document_path = ? ORDER BY id DESC LIMIT 1`,
		documentPath,
	)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last event for document: %w", err)
	}
	return ev, nil
}

// History returns up to limit events, newest first. An empty projectPath
// lists events of every project; limit <= 0 lists all of them.
func (s *Store) History(ctx context.Context, projectPath string, limit int) ([]*Event, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if projectPath != "" {
		query += ` WHERE project_path = ?`
		args = append(args, projectPath)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Prune removes events older than cutoff and returns how many were deleted.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

const eventColumns = "id, session_id, kind, project_path, document_path, flavor, document_digest, project_digest, split, warnings, created_at"

func scanEvent(scanner interface{ Scan(dest ...any) error }) (*Event, error) {
	var (
		id             int64
		sessionID      string
		kind           string
		projectPath    string
		documentPath   sql.NullString
		flavor         sql.NullString
		documentDigest sql.NullString
		projectDigest  sql.NullString
		split          sql.NullInt64
		warnings       sql.NullInt64
		createdRaw     sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&sessionID,
		&kind,
		&projectPath,
		&documentPath,
		&flavor,
		&documentDigest,
		&projectDigest,
		&split,
		&warnings,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	ev := &Event{
		ID:             id,
		SessionID:      sessionID,
		Kind:           Kind(kind),
		ProjectPath:    projectPath,
		DocumentPath:   documentPath.String,
		Flavor:         flavor.String,
		DocumentDigest: documentDigest.String,
		ProjectDigest:  projectDigest.String,
		Split:          split.Valid && split.Int64 != 0,
		Warnings:       int(warnings.Int64),
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw.String); err == nil {
		ev.CreatedAt = created
	}
	return ev, nil
}

func nullableString(value string) any {
	if value == "" {
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
