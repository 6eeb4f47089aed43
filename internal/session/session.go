// Package session drives the interactive learning loop: course and
// module pickers, the lesson walkthrough, quizzes, challenges, and the
// end-of-session summary. Interaction is strictly sequential; every
// screen is printed in full and then blocks on a single prompt.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"agentschool/internal/config"
	"agentschool/internal/content"
	"agentschool/internal/history"
	"agentschool/internal/lesson"
	"agentschool/internal/progress"
	"agentschool/internal/render"
	"agentschool/internal/theme"
)

// Session owns all per-run state. A Session is not safe for concurrent
// use; Run is the only entry point and drives everything from one
// goroutine.
type Session struct {
	cfg      config.Config
	logger   *log.Logger
	courses  []content.Course
	store    *progress.Store
	doc      *progress.Document
	hist     *history.SQLiteStore
	renderer *render.Renderer
	id       string
	streak   int
	rng      *rand.Rand

	out io.Writer
	in  *bufio.Reader

	lessons    int
	quizzes    int
	challenges int
	examples   int
}

func New(cfg config.Config, courses []content.Course, hist *history.SQLiteStore, logger *log.Logger) *Session {
	renderer := render.New(render.Options{
		Out:         os.Stdout,
		TermProgram: cfg.TermProgram,
		Profile:     termenv.ColorProfile(),
		NoImages:    cfg.NoImages,
		Logger:      logger,
	})
	return &Session{
		cfg:      cfg,
		logger:   logger,
		courses:  courses,
		store:    progress.NewStore(cfg.ProgressPath()),
		hist:     hist,
		renderer: renderer,
		id:       uuid.NewString(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		out:      os.Stdout,
		in:       bufio.NewReader(os.Stdin),
	}
}

// Run executes the full interactive loop until the learner exits. A
// Ctrl+C during any prompt surfaces as huh.ErrUserAborted and is
// treated as a normal quit, not an error.
func (s *Session) Run(ctx context.Context) error {
	s.doc = s.store.Load()
	s.streak = progress.UpdateStreak(s.doc, time.Now())
	s.saveProgress()
	s.welcome()

	err := s.browseCourses(ctx)
	if err != nil && !errors.Is(err, huh.ErrUserAborted) && !errors.Is(err, context.Canceled) {
		return err
	}
	s.summary()
	return nil
}

func (s *Session) browseCourses(ctx context.Context) error {
	for ctx.Err() == nil {
		course, ok, err := s.pickCourse()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if course.Status == content.StatusComingSoon {
			s.renderer.Clear()
			body := s.renderer.Markdown(course.DescriptionMD)
			footer := "This course is coming soon. Check back later!"
			fmt.Fprintln(s.out, s.renderer.Panel(body, theme.Accent.Render(course.Title), footer, theme.CourseColor(course.Color)))
			s.waitEnter("Press Enter to go back...")
			continue
		}
		if err := s.browseModules(ctx, course); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Session) browseModules(ctx context.Context, course content.Course) error {
	for ctx.Err() == nil {
		module, ok, err := s.pickModule(course)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := s.moduleMenu(ctx, course, module); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Session) moduleMenu(ctx context.Context, course content.Course, module content.Module) error {
	for ctx.Err() == nil {
		action, err := s.pickAction(course, module)
		if err != nil {
			return err
		}
		switch action {
		case actionLesson:
			err = s.runLesson(ctx, course, module)
		case actionQuiz:
			err = s.runQuiz(ctx, course, module)
		case actionChallenge:
			err = s.runChallenge(ctx, course, module)
		case actionExamples:
			err = s.runExamples(ctx, course, module)
		case actionSetup:
			err = s.runSetup(ctx, course, module)
		case actionBack:
			return nil
		}
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

const (
	actionLesson    = "lesson"
	actionQuiz      = "quiz"
	actionChallenge = "challenge"
	actionExamples  = "examples"
	actionSetup     = "setup"
	actionBack      = "back"
)

func (s *Session) pickCourse() (content.Course, bool, error) {
	opts := make([]huh.Option[string], 0, len(s.courses)+1)
	for _, c := range s.courses {
		label := c.Title
		if c.Status == content.StatusComingSoon {
			label += "  (coming soon)"
		}
		opts = append(opts, huh.NewOption(label, c.CourseID))
	}
	opts = append(opts, huh.NewOption("Exit", ""))

	var id string
	if err := selectOne("Select a course", theme.Shortcuts["course_picker"], opts, &id); err != nil {
		return content.Course{}, false, err
	}
	if id == "" {
		return content.Course{}, false, nil
	}
	course, ok := content.FindCourse(s.courses, id)
	if !ok {
		return content.Course{}, false, fmt.Errorf("unknown course %q", id)
	}
	return course, true, nil
}

func (s *Session) pickModule(course content.Course) (content.Module, bool, error) {
	fmt.Fprintln(s.out, courseArt(course))

	opts := make([]huh.Option[string], 0, len(course.Modules)+1)
	for _, m := range course.Modules {
		label := fmt.Sprintf("%s %s", s.moduleMarker(course, m), m.Title)
		if desc := course.ModuleDescription(m); desc != "" {
			label += "  " + theme.Muted.Render(desc)
		}
		opts = append(opts, huh.NewOption(label, m.ModuleID))
	}
	opts = append(opts, huh.NewOption("← Back", ""))

	var id string
	if err := selectOne(course.Title, theme.Shortcuts["module_picker"], opts, &id); err != nil {
		return content.Module{}, false, err
	}
	if id == "" {
		return content.Module{}, false, nil
	}
	module, ok := course.FindModule(id)
	if !ok {
		return content.Module{}, false, fmt.Errorf("unknown module %q", id)
	}
	return module, true, nil
}

// courseArt is the course's ASCII art in its own color, shown above
// the module picker. Courses without art get the default mascot.
func courseArt(course content.Course) string {
	art := course.Art
	if strings.TrimSpace(art) == "" {
		art = theme.DefaultArt
	}
	style := lipgloss.NewStyle().Foreground(theme.CourseColor(course.Color))
	return style.Render(strings.Trim(art, "\n"))
}

// moduleMarker summarizes a module's progress in one glyph: ✓ when
// everything the module offers is done, ~ when anything is, blank
// otherwise.
func (s *Session) moduleMarker(course content.Course, m content.Module) string {
	p := progress.For(s.doc, course.CourseID, m.ModuleID)
	done := p.Lesson
	any := p.Lesson
	if len(m.Quiz) > 0 {
		done = done && p.QuizScore != ""
		any = any || p.QuizScore != ""
	}
	if m.Challenge != nil {
		done = done && p.Challenge
		any = any || p.Challenge
	}
	switch {
	case done:
		return theme.Pass.Render("✓")
	case any:
		return theme.Warn.Render("~")
	default:
		return " "
	}
}

func (s *Session) pickAction(course content.Course, module content.Module) (string, error) {
	opts := []huh.Option[string]{
		huh.NewOption("📖 Read Lesson", actionLesson),
	}
	if n := len(module.Quiz); n > 0 {
		opts = append(opts, huh.NewOption(fmt.Sprintf("❓ Take Quiz (%d questions)", n), actionQuiz))
	}
	if module.Challenge != nil {
		opts = append(opts, huh.NewOption("🏆 Challenge: "+module.Challenge.Topic, actionChallenge))
	}
	if len(module.Examples) > 0 {
		opts = append(opts, huh.NewOption("▶ Run Examples", actionExamples))
	}
	if module.Setup != nil {
		opts = append(opts, huh.NewOption("🔧 Setup: "+module.Setup.Name, actionSetup))
	}
	opts = append(opts, huh.NewOption("← Back", actionBack))

	var action string
	if err := selectOne(module.Title, theme.Shortcuts["module_menu"], opts, &action); err != nil {
		return "", err
	}
	return action, nil
}

func (s *Session) runLesson(ctx context.Context, course content.Course, module content.Module) error {
	pages, err := lesson.Parse(course.LessonPath(module))
	if err != nil {
		s.logger.Warn("parse lesson", "module", module.ModuleID, "err", err)
		fmt.Fprintln(s.out, theme.Warn.Render("Could not read the lesson file: "+err.Error()))
		s.waitEnter("Press Enter to go back...")
		return nil
	}
	if len(pages) == 0 {
		s.renderer.Clear()
		fmt.Fprintln(s.out, theme.Caption.Render("This lesson has no content yet."))
		s.waitEnter("Press Enter to go back...")
		return nil
	}

	color := theme.CourseColor(course.Color)
	s.renderer.RenderTOC(pages, module.Title, color)
	s.waitEnter("Press Enter to begin...")
	for i, page := range pages {
		s.renderer.Render(page, i+1, len(pages), module.Title, color)
		if i < len(pages)-1 {
			s.waitEnter("Press Enter for the next page...")
		} else {
			s.waitEnter("Press Enter to finish the lesson...")
		}
	}

	progress.MarkLesson(s.doc, course.CourseID, module.ModuleID)
	s.saveProgress()
	s.record(ctx, history.KindLesson, course, module, "")
	s.lessons++
	fmt.Fprintln(s.out, theme.Pass.Render("Lesson complete!"))
	s.tip()
	return nil
}

func (s *Session) welcome() {
	fmt.Fprintln(s.out, theme.Accent.Render(theme.WelcomeBanner))
	fmt.Fprintln(s.out, theme.Caption.Render("Learn by reading, answering, and shipping working code."))
	if s.streak > 1 {
		fmt.Fprintln(s.out, theme.Warn.Render(fmt.Sprintf("🔥 %d day streak", s.streak)))
	}
	fmt.Fprintln(s.out)
}

func (s *Session) summary() {
	var b strings.Builder
	fmt.Fprintf(&b, "Lessons read:         %d\n", s.lessons)
	fmt.Fprintf(&b, "Quizzes taken:        %d\n", s.quizzes)
	fmt.Fprintf(&b, "Challenges passed:    %d\n", s.challenges)
	fmt.Fprintf(&b, "Examples run:         %d\n", s.examples)
	fmt.Fprintf(&b, "Current streak:       %d day(s)", s.streak)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.renderer.Panel(b.String(), theme.Accent.Render("Session summary"), "", theme.CourseColor("")))
	fmt.Fprintln(s.out, theme.Caption.Render("Happy learning! See you tomorrow to keep the streak alive."))
}

func (s *Session) saveProgress() {
	if err := s.store.Save(s.doc); err != nil {
		s.logger.Warn("save progress", "path", s.cfg.ProgressPath(), "err", err)
	}
}

func (s *Session) record(ctx context.Context, kind string, course content.Course, module content.Module, detail string) {
	if s.hist == nil {
		return
	}
	a := history.Activity{
		SessionID: s.id,
		CourseID:  course.CourseID,
		ModuleID:  module.ModuleID,
		Kind:      kind,
		Detail:    detail,
	}
	if err := s.hist.Record(ctx, a); err != nil {
		s.logger.Warn("record activity", "kind", kind, "err", err)
	}
}

func (s *Session) tip() {
	if len(theme.Tips) == 0 {
		return
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, theme.Caption.Render(theme.Tips[s.rng.Intn(len(theme.Tips))]))
}

// waitEnter blocks until the learner presses Enter. EOF on stdin is
// treated the same way so piped input terminates cleanly.
func (s *Session) waitEnter(prompt string) {
	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, theme.Muted.Render(prompt)+" ")
	_, _ = s.in.ReadString('\n')
}

// runnerFor resolves the interpreter command, preferring the --runner
// override. A blank or whitespace-only override falls through to the
// course's runner rather than producing an empty command.
func (s *Session) runnerFor(course content.Course) []string {
	if fields := strings.Fields(s.cfg.RunnerOverride); len(fields) > 0 {
		return fields
	}
	return course.Runner
}

func selectOne[T comparable](title, hint string, opts []huh.Option[T], value *T) error {
	sel := huh.NewSelect[T]().
		Title(title).
		Description(hint).
		Options(opts...).
		Value(value)
	return huh.NewForm(huh.NewGroup(sel)).Run()
}
