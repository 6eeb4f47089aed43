package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"agentschool/internal/content"
	"agentschool/internal/history"
	"agentschool/internal/progress"
	"agentschool/internal/theme"
	"agentschool/internal/validate"
)

const (
	challengeValidate = "validate"
	challengeReset    = "reset"
	challengeBack     = "back"
)

// runChallenge loops on the challenge screen until the learner passes
// or backs out. The solution file is edited externally; this screen
// only validates and resets it.
func (s *Session) runChallenge(ctx context.Context, course content.Course, module content.Module) error {
	ch := module.Challenge
	dir := course.ModuleDir(module)
	file := filepath.Join(dir, ch.File)
	v := validate.NewValidator(s.runnerFor(course))
	v.Timeout = s.cfg.ChallengeTimeout
	color := theme.CourseColor(course.Color)

	for ctx.Err() == nil {
		s.renderer.Clear()
		fmt.Fprintln(s.out, s.renderer.Panel(s.challengeBrief(module, file), theme.Accent.Render("🏆 Challenge: "+ch.Topic), theme.Shortcuts["challenge"], color))

		opts := []huh.Option[string]{
			huh.NewOption("Validate my solution", challengeValidate),
			huh.NewOption("Reset the challenge file", challengeReset),
			huh.NewOption("← Back to module", challengeBack),
		}
		var action string
		if err := selectOne("What next?", "", opts, &action); err != nil {
			return err
		}

		switch action {
		case challengeValidate:
			passed, err := s.validateSolution(ctx, v, file)
			if err != nil {
				return err
			}
			if passed {
				progress.MarkChallenge(s.doc, course.CourseID, module.ModuleID)
				s.saveProgress()
				s.record(ctx, history.KindChallenge, course, module, ch.File)
				s.challenges++
				s.tip()
				s.waitEnter("Press Enter to go back...")
				return nil
			}
			s.waitEnter("Press Enter to continue...")
		case challengeReset:
			s.resetChallenge(ctx, dir, ch.File)
			s.waitEnter("Press Enter to continue...")
		case challengeBack:
			return nil
		}
	}
	return ctx.Err()
}

func (s *Session) challengeBrief(module content.Module, file string) string {
	ch := module.Challenge
	var b strings.Builder
	fmt.Fprintf(&b, "Edit `%s` and replace every `%s` placeholder with working code.\n\n", file, validate.Placeholder)
	if len(ch.Hints) > 0 {
		b.WriteString("**Hints:**\n\n")
		for _, h := range ch.Hints {
			b.WriteString("- " + h + "\n")
		}
	}
	brief := s.renderer.Markdown(b.String())
	if module.Setup != nil && !setupReady(module.Setup) {
		brief += "\n" + theme.Warn.Render("⚠ Setup incomplete: run \""+module.Setup.Name+"\" from the module menu first.")
	}
	return brief
}

// validateSolution runs the solution and reports the outcome. The
// returned bool is true only for a pass; every non-pass outcome keeps
// the challenge open.
func (s *Session) validateSolution(ctx context.Context, v *validate.Validator, file string) (bool, error) {
	var res validate.Result
	var runErr error
	_ = spinner.New().
		Title("Running your solution...").
		Action(func() { res, runErr = v.Validate(ctx, file) }).
		Run()
	if runErr != nil {
		s.logger.Warn("validate challenge", "file", file, "err", runErr)
		fmt.Fprintln(s.out, theme.Warn.Render("Could not run the validation: "+runErr.Error()))
		return false, nil
	}

	switch res.Kind {
	case validate.KindIncomplete:
		noun := "placeholders"
		if res.Remaining == 1 {
			noun = "placeholder"
		}
		fmt.Fprintln(s.out, theme.Warn.Render(fmt.Sprintf("%d %s %s still in the file. Fill them in before validating.", res.Remaining, validate.Placeholder, noun)))
	case validate.KindTimeout:
		fmt.Fprintln(s.out, theme.Fail.Render(fmt.Sprintf("Your solution did not finish within %s. Look for an infinite loop or a blocking call.", v.Timeout)))
	case validate.KindFailed:
		fmt.Fprintln(s.out, theme.Fail.Render("Your solution raised an error:"))
		fmt.Fprintln(s.out, res.Error)
	case validate.KindPassed:
		fmt.Fprintln(s.out, theme.Pass.Render("✓ Challenge passed! 🎉"))
		if res.Output != "" {
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, res.Output)
		}
		return true, nil
	}
	return false, nil
}

// resetChallenge restores the file from git, discarding the learner's
// edits. The checkout runs from the module directory so an absolute
// courses dir outside the process cwd still resolves to the right
// repository. Failures are reported inline and never abort the session.
func (s *Session) resetChallenge(ctx context.Context, dir, rel string) {
	err := validate.Reset(ctx, dir, rel)
	switch {
	case err == nil:
		fmt.Fprintln(s.out, theme.Pass.Render("Challenge file restored to its starting state."))
	case errors.Is(err, validate.ErrAlreadyPristine):
		fmt.Fprintln(s.out, theme.Caption.Render("The challenge file is already in its starting state."))
	case errors.Is(err, validate.ErrGitNotFound):
		fmt.Fprintln(s.out, theme.Warn.Render("git is not installed, so the file cannot be reset automatically."))
	default:
		s.logger.Warn("reset challenge", "file", filepath.Join(dir, rel), "err", err)
		fmt.Fprintln(s.out, theme.Warn.Render("Reset failed: "+err.Error()))
	}
}
