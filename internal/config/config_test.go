package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("AGENTSCHOOL_COURSES_DIR", "/opt/courses")
	t.Setenv("AGENTSCHOOL_CHALLENGE_TIMEOUT", "30s")
	t.Setenv("AGENTSCHOOL_NO_IMAGES", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.CoursesDir != "/opt/courses" {
		t.Fatalf("courses dir: got %q", cfg.CoursesDir)
	}
	if cfg.ChallengeTimeout != 30*time.Second {
		t.Fatalf("timeout: got %s", cfg.ChallengeTimeout)
	}
	if !cfg.NoImages {
		t.Fatalf("no-images flag not parsed")
	}
}

func TestValidateFillsDataDir(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.DataDir == "" {
		t.Fatalf("data dir default not applied")
	}
	if filepath.Base(cfg.DataDir) != "agentschool" {
		t.Fatalf("unexpected data dir: %q", cfg.DataDir)
	}
}

func TestValidateRejectsBadTimeout(t *testing.T) {
	cfg := Default()
	cfg.ChallengeTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestProgressPathStaysRelativeToCoursesParent(t *testing.T) {
	cfg := Default()
	cfg.CoursesDir = "/srv/agentschool/courses"
	want := filepath.Join("/srv/agentschool", ".agentschool-progress.json")
	if got := cfg.ProgressPath(); got != want {
		t.Fatalf("progress path: got %q want %q", got, want)
	}

	cfg.ProgressFile = "/tmp/p.json"
	if got := cfg.ProgressPath(); got != "/tmp/p.json" {
		t.Fatalf("absolute progress file must win: %q", got)
	}
}

func TestHistoryPathUnderDataDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	if got := cfg.HistoryPath(); got != filepath.Join("/data", "history.db") {
		t.Fatalf("history path: got %q", got)
	}
}
