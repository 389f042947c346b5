// Package store persists recording sessions and the script lines they
// generated in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
	ErrFinished = errors.New("session already finished")
)

type Store struct {
	db *sql.DB
}

// Session is one stored recording.
type Session struct {
	ID         string     `yaml:"id"                    json:"id"`
	Source     string     `yaml:"source,omitempty"      json:"source,omitempty"`
	KeyOnly    bool       `yaml:"key_only"              json:"key_only"`
	ScaleClick bool       `yaml:"scale_click"           json:"scale_click"`
	StartedAt  time.Time  `yaml:"started_at"            json:"started_at"`
	FinishedAt *time.Time `yaml:"finished_at,omitempty" json:"finished_at,omitempty"`
	Lines      int        `yaml:"lines"                 json:"lines"`
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("chmod db path: %w", err)
	}
	if err := ApplyMigrations(ctx, db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateSession inserts a new session row. An empty ID gets a fresh UUIDv7.
func (s *Store) CreateSession(ctx context.Context, sess Session) (Session, error) {
	if strings.TrimSpace(sess.ID) == "" {
		sess.ID = uuid.Must(uuid.NewV7()).String()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now().UTC()
	}
	sess.FinishedAt = nil
	sess.Lines = 0
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions(session_id, source, key_only, scale_click, started_at)
VALUES (?, ?, ?, ?, ?)
`, sess.ID, sess.Source, boolToInt(sess.KeyOnly), boolToInt(sess.ScaleClick), ts(sess.StartedAt))
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// AppendLines adds generated lines after any already stored for the session.
func (s *Store) AppendLines(ctx context.Context, sessionID string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var finished sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT finished_at FROM sessions WHERE session_id = ?`, sessionID).Scan(&finished)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup session: %w", err)
	}
	if finished.Valid {
		return fmt.Errorf("session %s: %w", sessionID, ErrFinished)
	}

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq) + 1, 0) FROM script_lines WHERE session_id = ?`, sessionID).Scan(&next); err != nil {
		return fmt.Errorf("next line seq: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO script_lines(session_id, seq, line) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert line: %w", err)
	}
	defer stmt.Close() //nolint:errcheck
	for i, line := range lines {
		if _, err := stmt.ExecContext(ctx, sessionID, next+i, line); err != nil {
			return fmt.Errorf("insert line %d: %w", next+i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lines: %w", err)
	}
	return nil
}

// FinishSession stamps the session's finish time. Finishing twice is an error.
func (s *Store) FinishSession(ctx context.Context, sessionID string, finishedAt time.Time) error {
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET finished_at = ? WHERE session_id = ? AND finished_at IS NULL`, ts(finishedAt), sessionID)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish session rows: %w", err)
	}
	if n == 0 {
		if _, err := s.GetSession(ctx, sessionID); err != nil {
			return err
		}
		return fmt.Errorf("session %s: %w", sessionID, ErrFinished)
	}
	return nil
}

const sessionColumns = `
SELECT s.session_id, s.source, s.key_only, s.scale_click, s.started_at, s.finished_at,
	(SELECT COUNT(*) FROM script_lines l WHERE l.session_id = s.session_id)
FROM sessions s`

func (s *Store) GetSession(ctx context.Context, sessionID string) (Session, error) {
	row := s.db.QueryRowContext(ctx, sessionColumns+` WHERE s.session_id = ?`, sessionID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return sess, err
}

// ListSessions returns sessions newest first.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, sessionColumns+` ORDER BY s.started_at DESC, s.session_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// SessionLines returns the stored lines of a session in generation order.
func (s *Store) SessionLines(ctx context.Context, sessionID string) ([]string, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT line FROM script_lines WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		out = append(out, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}
	return out, nil
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (Session, error) {
	var (
		sess       Session
		keyOnly    int
		scaleClick int
		startedAt  string
		finishedAt sql.NullString
	)
	if err := scanner.Scan(&sess.ID, &sess.Source, &keyOnly, &scaleClick, &startedAt, &finishedAt, &sess.Lines); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	sess.KeyOnly = keyOnly != 0
	sess.ScaleClick = scaleClick != 0
	t, err := parseTS(startedAt)
	if err != nil {
		return Session{}, fmt.Errorf("parse started_at: %w", err)
	}
	sess.StartedAt = t
	if finishedAt.Valid {
		t, err := parseTS(finishedAt.String)
		if err != nil {
			return Session{}, fmt.Errorf("parse finished_at: %w", err)
		}
		sess.FinishedAt = &t
	}
	return sess, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
