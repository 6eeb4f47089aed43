// Package config resolves runtime settings from the environment and
// command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every knob the session needs. Fields map to
// AGENTSCHOOL_* environment variables and may be overridden by flags.
type Config struct {
	CoursesDir       string        `env:"AGENTSCHOOL_COURSES_DIR"`
	DataDir          string        `env:"AGENTSCHOOL_DATA_DIR"`
	ProgressFile     string        `env:"AGENTSCHOOL_PROGRESS_FILE"`
	LogFile          string        `env:"AGENTSCHOOL_LOG_FILE"`
	RunnerOverride   string        `env:"AGENTSCHOOL_RUNNER"`
	ChallengeTimeout time.Duration `env:"AGENTSCHOOL_CHALLENGE_TIMEOUT"`
	NoImages         bool          `env:"AGENTSCHOOL_NO_IMAGES"`

	// TermProgram is read from the terminal emulator, not an app knob.
	TermProgram string `env:"TERM_PROGRAM"`
}

// Default returns the built-in settings before environment parsing.
func Default() Config {
	return Config{
		CoursesDir:       "courses",
		ProgressFile:     ".agentschool-progress.json",
		ChallengeTimeout: 120 * time.Second,
	}
}

// FromEnv builds a Config from defaults plus AGENTSCHOOL_* overrides.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate fills derived defaults and rejects unusable settings.
func (c *Config) Validate() error {
	if c.CoursesDir == "" {
		return fmt.Errorf("courses dir must not be empty")
	}
	if c.ProgressFile == "" {
		return fmt.Errorf("progress file must not be empty")
	}
	if c.ChallengeTimeout <= 0 {
		return fmt.Errorf("challenge timeout must be positive, got %s", c.ChallengeTimeout)
	}
	if c.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	return nil
}

// ProgressPath is the on-disk location of the progress document. The
// file lives next to the course material so learners can keep it under
// version control with their exercise checkout.
func (c Config) ProgressPath() string {
	if filepath.IsAbs(c.ProgressFile) {
		return c.ProgressFile
	}
	return filepath.Join(filepath.Dir(c.CoursesDir), c.ProgressFile)
}

// HistoryPath is the on-disk location of the activity journal.
func (c Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "agentschool"), nil
}
