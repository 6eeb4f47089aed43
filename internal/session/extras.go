package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"

	"agentschool/internal/content"
	"agentschool/internal/history"
	"agentschool/internal/theme"
)

// runExamples picks one of the module's example scripts and runs it
// attached to the terminal, so interactive scripts and streamed agent
// output work as they would from a shell.
func (s *Session) runExamples(ctx context.Context, course content.Course, module content.Module) error {
	choice := module.Examples[0]
	if len(module.Examples) > 1 {
		opts := make([]huh.Option[string], 0, len(module.Examples)+1)
		for _, ex := range module.Examples {
			opts = append(opts, huh.NewOption(ex, ex))
		}
		opts = append(opts, huh.NewOption("← Back", ""))
		if err := selectOne("Pick an example", "", opts, &choice); err != nil {
			return err
		}
		if choice == "" {
			return nil
		}
	}

	dir := course.ModuleDir(module)
	runner := s.runnerFor(course)
	s.renderer.Clear()
	fmt.Fprintln(s.out, theme.Accent.Render("▶ "+choice))
	fmt.Fprintln(s.out)

	cctx, cancel := context.WithTimeout(ctx, s.cfg.ChallengeTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, runner[0], append(runner[1:], choice)...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = s.out
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	fmt.Fprintln(s.out)
	switch {
	case errors.Is(cctx.Err(), context.DeadlineExceeded):
		fmt.Fprintln(s.out, theme.Fail.Render(fmt.Sprintf("Example stopped after %s.", s.cfg.ChallengeTimeout)))
	case err != nil:
		fmt.Fprintln(s.out, theme.Fail.Render("Example exited with an error: "+err.Error()))
	default:
		fmt.Fprintln(s.out, theme.Pass.Render("Example finished."))
	}

	s.record(ctx, history.KindExample, course, module, choice)
	s.examples++
	s.tip()
	s.waitEnter("Press Enter to go back...")
	return nil
}

// runSetup walks the module's setup steps: show the instructions, run
// the make target when one is configured, then seed .env defaults and
// export them into this process.
func (s *Session) runSetup(ctx context.Context, course content.Course, module content.Module) error {
	st := module.Setup
	color := theme.CourseColor(course.Color)

	s.renderer.Clear()
	var b strings.Builder
	for _, step := range st.Instructions {
		b.WriteString("- " + step + "\n")
	}
	fmt.Fprintln(s.out, s.renderer.Panel(s.renderer.Markdown(b.String()), theme.Accent.Render("🔧 "+st.Name), "", color))

	if st.MakeTarget != "" {
		var run bool
		opts := []huh.Option[bool]{
			huh.NewOption("Run `make "+st.MakeTarget+"` now", true),
			huh.NewOption("← Back, I'll run it myself", false),
		}
		if err := selectOne("Run the setup target?", "", opts, &run); err != nil {
			return err
		}
		if run {
			if err := s.runMakeTarget(ctx, course.ModuleDir(module), st.MakeTarget); err != nil {
				fmt.Fprintln(s.out, theme.Fail.Render("Setup target failed: "+err.Error()))
				s.waitEnter("Press Enter to go back...")
				return nil
			}
			fmt.Fprintln(s.out, theme.Pass.Render("Setup target finished."))
		}
	}

	if len(st.EnvValues) > 0 {
		envPath := filepath.Join(course.Path, ".env")
		if err := applyEnvDefaults(envPath, st.EnvValues); err != nil {
			s.logger.Warn("seed env file", "path", envPath, "err", err)
			fmt.Fprintln(s.out, theme.Warn.Render("Could not update "+envPath+": "+err.Error()))
		} else {
			fmt.Fprintln(s.out, theme.Caption.Render("Defaults written to "+envPath+" and loaded into this session."))
		}
	}

	if setupReady(st) {
		fmt.Fprintln(s.out, theme.Pass.Render("✓ Setup complete."))
	} else {
		fmt.Fprintln(s.out, theme.Warn.Render("Some required variables are still unset: "+strings.Join(missingEnvVars(st), ", ")))
	}
	s.waitEnter("Press Enter to go back...")
	return nil
}

func (s *Session) runMakeTarget(ctx context.Context, dir, target string) error {
	cctx, cancel := context.WithTimeout(ctx, s.cfg.ChallengeTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, "make", target)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = s.out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("make %s timed out after %s", target, s.cfg.ChallengeTimeout)
		}
		return fmt.Errorf("make %s: %w", target, err)
	}
	return nil
}

// applyEnvDefaults merges default values into the .env file without
// clobbering anything the learner already set, then exports every
// entry that is not already present in the environment.
func applyEnvDefaults(path string, values map[string]string) error {
	envs := map[string]string{}
	if existing, err := godotenv.Read(path); err == nil {
		envs = existing
	}
	changed := false
	for k, v := range values {
		if _, ok := envs[k]; !ok {
			envs[k] = v
			changed = true
		}
	}
	if changed {
		if err := godotenv.Write(envs, path); err != nil {
			return err
		}
	}
	for k, v := range envs {
		if os.Getenv(k) == "" {
			if err := os.Setenv(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setupReady(st *content.Setup) bool {
	return len(missingEnvVars(st)) == 0
}

func missingEnvVars(st *content.Setup) []string {
	var missing []string
	for _, name := range st.EnvVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
