package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestRecordAndSummarize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)

	activities := []Activity{
		{SessionID: "s1", TS: ts, CourseID: "c", ModuleID: "03", Kind: KindLesson},
		{SessionID: "s1", TS: ts, CourseID: "c", ModuleID: "03", Kind: KindQuiz, Detail: "3/3"},
		{SessionID: "s2", TS: ts, CourseID: "c", ModuleID: "03", Kind: KindChallenge, Detail: "challenge.py"},
		{SessionID: "s2", TS: ts, CourseID: "c", ModuleID: "05", Kind: KindExample, Detail: "demo.py"},
		{SessionID: "s2", TS: ts, CourseID: "c", ModuleID: "05", Kind: KindLesson},
	}
	for _, a := range activities {
		if err := store.Record(ctx, a); err != nil {
			t.Fatalf("record %s: %v", a.Kind, err)
		}
	}

	sum, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if sum.Sessions != 2 {
		t.Fatalf("sessions: got %d want 2", sum.Sessions)
	}
	if sum.Lessons != 2 || sum.Quizzes != 1 || sum.Challenges != 1 || sum.Examples != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRecordRejectsMissingKind(t *testing.T) {
	store := newTestStore(t)
	err := store.Record(context.Background(), Activity{SessionID: "s1", CourseID: "c", ModuleID: "03"})
	if err == nil {
		t.Fatalf("expected error for missing kind")
	}
}

func TestSummaryOnEmptyStore(t *testing.T) {
	store := newTestStore(t)
	sum, err := store.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if sum != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
}
