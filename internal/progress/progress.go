// Package progress persists per-module completion state and the daily
// learning streak to a flat JSON file. The file is pretty-printed so a
// learner can inspect or hand-edit it; a corrupt or missing file is
// silently replaced by defaults rather than surfaced as an error.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const dateLayout = "2006-01-02"

// ModuleProgress records what has been earned in one module. Fields
// stay absent until earned so the JSON file only grows as the learner
// does.
type ModuleProgress struct {
	Lesson    bool   `json:"lesson,omitempty"`
	QuizScore string `json:"quiz_score,omitempty"`
	Challenge bool   `json:"challenge,omitempty"`
}

// Document is the full persisted progress state.
type Document struct {
	Courses    map[string]map[string]ModuleProgress `json:"courses"`
	LastActive *string                              `json:"last_active"`
	Streak     int                                  `json:"streak"`
}

func defaultDocument() *Document {
	return &Document{Courses: map[string]map[string]ModuleProgress{}}
}

// Store reads and writes a progress document at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the document on disk, or a fresh default when the file
// is missing or does not parse as JSON. Missing top-level keys in an
// otherwise valid file are backfilled, so files written by older
// builds keep working.
func (s *Store) Load() *Document {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return defaultDocument()
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return defaultDocument()
	}
	if doc.Courses == nil {
		doc.Courses = map[string]map[string]ModuleProgress{}
	}
	return &doc
}

// Save overwrites the progress file. Last writer wins; a single local
// user is assumed.
func (s *Store) Save(doc *Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(b, '\n'), 0o644)
}

// UpdateStreak advances the daily streak for today and returns the
// current count. Same day: unchanged, so calling twice in one run
// cannot double-increment. Exactly one day since the last session:
// incremented. Any other gap, including a first run: reset to 1.
func UpdateStreak(doc *Document, today time.Time) int {
	day := today.Format(dateLayout)
	yesterday := today.AddDate(0, 0, -1).Format(dateLayout)

	last := ""
	if doc.LastActive != nil {
		last = *doc.LastActive
	}
	switch last {
	case day:
		if doc.Streak < 1 {
			doc.Streak = 1
		}
		return doc.Streak
	case yesterday:
		doc.Streak++
	default:
		doc.Streak = 1
	}
	doc.LastActive = &day
	return doc.Streak
}

// MarkLesson records a completed lesson walkthrough.
func MarkLesson(doc *Document, courseID, moduleID string) {
	m := ensureModule(doc, courseID, moduleID)
	m.Lesson = true
	doc.Courses[courseID][moduleID] = m
}

// MarkQuiz records a quiz score as "score/total". The most recent
// attempt overwrites any prior score; there is no best-attempt
// retention.
func MarkQuiz(doc *Document, courseID, moduleID string, score, total int) {
	m := ensureModule(doc, courseID, moduleID)
	m.QuizScore = formatScore(score, total)
	doc.Courses[courseID][moduleID] = m
}

// MarkChallenge records a passed coding challenge.
func MarkChallenge(doc *Document, courseID, moduleID string) {
	m := ensureModule(doc, courseID, moduleID)
	m.Challenge = true
	doc.Courses[courseID][moduleID] = m
}

// For returns the recorded progress for one module, zero if none.
func For(doc *Document, courseID, moduleID string) ModuleProgress {
	if doc == nil || doc.Courses == nil {
		return ModuleProgress{}
	}
	return doc.Courses[courseID][moduleID]
}

func ensureModule(doc *Document, courseID, moduleID string) ModuleProgress {
	if doc.Courses == nil {
		doc.Courses = map[string]map[string]ModuleProgress{}
	}
	if doc.Courses[courseID] == nil {
		doc.Courses[courseID] = map[string]ModuleProgress{}
	}
	return doc.Courses[courseID][moduleID]
}

func formatScore(score, total int) string {
	return fmt.Sprintf("%d/%d", score, total)
}
