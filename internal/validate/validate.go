// Package validate grades a learner's edited challenge file. A file
// still carrying fill-in placeholders is reported incomplete without
// being run; a completed file is executed as a subprocess under a
// wall-clock timeout and classified by its exit code.
package validate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Placeholder is the fill-in token challenge authors leave in code.
const Placeholder = "XXXX___"

const (
	DefaultTimeout     = 120 * time.Second
	DefaultMaxErrorLen = 800
)

var (
	// ErrGitNotFound distinguishes "the reset tool is missing" from
	// "the reset operation failed".
	ErrGitNotFound = errors.New("git not found in PATH")

	// ErrAlreadyPristine reports a reset request for a file that still
	// has its placeholders; there is nothing to restore.
	ErrAlreadyPristine = errors.New("challenge already has placeholders")
)

// Docstrings and comments may quote the placeholder as hint text, so
// they are stripped before counting. Order matters: block strings
// first, then line comments.
var (
	tripleDouble = regexp.MustCompile(`(?s)""".*?"""`)
	tripleSingle = regexp.MustCompile(`(?s)'''.*?'''`)
	lineComment  = regexp.MustCompile(`#.*`)
)

type ResultKind string

const (
	KindIncomplete ResultKind = "incomplete"
	KindTimeout    ResultKind = "timeout"
	KindPassed     ResultKind = "passed"
	KindFailed     ResultKind = "failed"
)

// Result is the tagged outcome of a validation run.
type Result struct {
	Kind      ResultKind
	Remaining int    // KindIncomplete: placeholders left in code
	Output    string // KindPassed: trimmed stdout
	Error     string // KindFailed: truncated diagnostic text
}

type Validator struct {
	// Runner is the command prefix used to execute a challenge file,
	// e.g. ["python3"]. The file path is appended.
	Runner      []string
	Timeout     time.Duration
	MaxErrorLen int
}

func NewValidator(runner []string) *Validator {
	return &Validator{Runner: runner, Timeout: DefaultTimeout, MaxErrorLen: DefaultMaxErrorLen}
}

// StripComments removes triple-quoted block strings (both quote
// styles) and line comments, leaving only code.
func StripComments(src string) string {
	src = tripleDouble.ReplaceAllString(src, "")
	src = tripleSingle.ReplaceAllString(src, "")
	src = lineComment.ReplaceAllString(src, "")
	return src
}

// CountPlaceholders counts placeholder tokens remaining in code,
// ignoring occurrences inside comments and docstrings.
func CountPlaceholders(src string) int {
	return strings.Count(StripComments(src), Placeholder)
}

// Validate grades one challenge file. A missing file is an error, not
// a Result: the caller reports it and stays in its menu.
func (v *Validator) Validate(ctx context.Context, file string) (Result, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return Result{}, fmt.Errorf("read challenge: %w", err)
	}

	if remaining := CountPlaceholders(string(src)); remaining > 0 {
		return Result{Kind: KindIncomplete, Remaining: remaining}, nil
	}

	timeout := v.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string(nil), v.Runner[1:]...), filepath.Base(file))
	cmd := exec.CommandContext(cctx, v.Runner[0], args...)
	cmd.Dir = filepath.Dir(file)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		// CommandContext has already killed the child.
		return Result{Kind: KindTimeout}, nil
	}
	if runErr == nil {
		return Result{Kind: KindPassed, Output: strings.TrimSpace(stdout.String())}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return Result{}, fmt.Errorf("run challenge: %w", runErr)
	}

	diagnostic := strings.TrimSpace(stderr.String())
	if diagnostic == "" {
		diagnostic = strings.TrimSpace(stdout.String())
	}
	return Result{Kind: KindFailed, Error: v.truncate(diagnostic)}, nil
}

func (v *Validator) truncate(text string) string {
	limit := v.MaxErrorLen
	if limit <= 0 {
		limit = DefaultMaxErrorLen
	}
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "\n..."
}

// Reset restores a challenge file to its committed placeholder-bearing
// state via git. It refuses to touch a file whose placeholders are
// still present, and reports a missing git binary distinctly from a
// failed checkout.
func Reset(ctx context.Context, repoRoot, relPath string) error {
	src, err := os.ReadFile(filepath.Join(repoRoot, relPath))
	if err != nil {
		return fmt.Errorf("read challenge: %w", err)
	}
	if CountPlaceholders(string(src)) > 0 {
		return ErrAlreadyPristine
	}
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	cmd := exec.CommandContext(ctx, "git", "checkout", "--", relPath)
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git checkout failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
