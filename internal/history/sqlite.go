// Package history keeps a best-effort activity journal in SQLite:
// one row per lesson, quiz, challenge, or example the learner runs.
// It backs the stats screen and the `stats` subcommand; failing to
// record never interrupts a session.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

const (
	KindLesson    = "lesson"
	KindQuiz      = "quiz"
	KindChallenge = "challenge"
	KindExample   = "example"
)

type Activity struct {
	SessionID string
	TS        time.Time
	CourseID  string
	ModuleID  string
	Kind      string
	Detail    string
}

type Summary struct {
	Sessions   int
	Lessons    int
	Quizzes    int
	Challenges int
	Examples   int
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			ts TEXT NOT NULL,
			course_id TEXT NOT NULL,
			module_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_kind ON activities(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Record(ctx context.Context, a Activity) error {
	ts := a.TS
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	kind := strings.TrimSpace(a.Kind)
	if kind == "" {
		return fmt.Errorf("activity kind is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities(session_id, ts, course_id, module_id, kind, detail) VALUES(?,?,?,?,?,?)`,
		a.SessionID,
		ts.UTC().Format(timeLayout),
		a.CourseID,
		a.ModuleID,
		kind,
		a.Detail,
	)
	return err
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT session_id) as sessions,
			COALESCE(SUM(CASE WHEN kind = 'lesson' THEN 1 ELSE 0 END), 0) as lessons,
			COALESCE(SUM(CASE WHEN kind = 'quiz' THEN 1 ELSE 0 END), 0) as quizzes,
			COALESCE(SUM(CASE WHEN kind = 'challenge' THEN 1 ELSE 0 END), 0) as challenges,
			COALESCE(SUM(CASE WHEN kind = 'example' THEN 1 ELSE 0 END), 0) as examples
		FROM activities
	`)
	if err := row.Scan(&out.Sessions, &out.Lessons, &out.Quizzes, &out.Challenges, &out.Examples); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
