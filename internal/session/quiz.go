package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"agentschool/internal/content"
	"agentschool/internal/history"
	"agentschool/internal/progress"
	"agentschool/internal/theme"
)

type missedQuestion struct {
	question content.Question
	picked   int
}

// runQuiz walks every question in order, shuffling the presented
// choices each time. The recorded score always reflects the most
// recent attempt, even when it is lower than an earlier one.
func (s *Session) runQuiz(ctx context.Context, course content.Course, module content.Module) error {
	color := theme.CourseColor(course.Color)
	var missed []missedQuestion
	score := 0

	for i, q := range module.Quiz {
		s.renderer.Clear()
		header := theme.Accent.Render(fmt.Sprintf("Question %d/%d", i+1, len(module.Quiz)))
		fmt.Fprintln(s.out, s.renderer.Panel(s.renderer.Markdown(q.PromptMD), header, theme.Shortcuts["quiz"], color))

		picked, err := s.askChoices(q)
		if err != nil {
			return err
		}
		if picked == q.Answer {
			score++
			fmt.Fprintln(s.out, theme.Pass.Render("✓ Correct!"))
		} else {
			fmt.Fprintln(s.out, theme.Fail.Render("✗ Not quite."))
			fmt.Fprintln(s.out, "The correct answer was: "+q.Choices[q.Answer])
			missed = append(missed, missedQuestion{question: q, picked: picked})
		}
		if q.Explanation != "" {
			fmt.Fprint(s.out, s.renderer.Markdown(q.Explanation))
		}
		s.waitEnter("Press Enter to continue...")
	}

	total := len(module.Quiz)
	s.showQuizResult(score, total, color)
	progress.MarkQuiz(s.doc, course.CourseID, module.ModuleID, score, total)
	s.saveProgress()
	s.record(ctx, history.KindQuiz, course, module, fmt.Sprintf("%d/%d", score, total))
	s.quizzes++

	if len(missed) > 0 {
		if err := s.offerReview(missed, color); err != nil {
			return err
		}
	}
	s.tip()
	return nil
}

// askChoices presents the answer options in random order. Option
// values are the original indices, so the shuffle never affects
// answer checking.
func (s *Session) askChoices(q content.Question) (int, error) {
	order := s.rng.Perm(len(q.Choices))
	opts := make([]huh.Option[int], len(order))
	for pos, orig := range order {
		opts[pos] = huh.NewOption(q.Choices[orig], orig)
	}
	var picked int
	if err := selectOne("Your answer", "", opts, &picked); err != nil {
		return 0, err
	}
	return picked, nil
}

func (s *Session) showQuizResult(score, total int, color lipgloss.Color) {
	pct := 0
	if total > 0 {
		pct = 100 * score / total
	}
	var verdict string
	switch {
	case pct == 100:
		verdict = theme.Pass.Render("Perfect score! 🎉")
	case pct >= 80:
		verdict = theme.Pass.Render("Great job!")
	case pct >= 60:
		verdict = theme.Warn.Render("Good effort. Review the lesson for the ones you missed.")
	default:
		verdict = theme.Fail.Render("Keep studying. Re-read the lesson and try again.")
	}
	body := fmt.Sprintf("Score: %d/%d (%d%%)\n\n%s", score, total, pct, verdict)
	s.renderer.Clear()
	fmt.Fprintln(s.out, s.renderer.Panel(body, theme.Accent.Render("Quiz results"), "", color))
}

func (s *Session) offerReview(missed []missedQuestion, color lipgloss.Color) error {
	var review bool
	opts := []huh.Option[bool]{
		huh.NewOption(fmt.Sprintf("Review incorrect answers (%d)", len(missed)), true),
		huh.NewOption("← Back to module", false),
	}
	if err := selectOne("What next?", "", opts, &review); err != nil {
		return err
	}
	if !review {
		return nil
	}
	for _, m := range missed {
		s.renderer.Clear()
		var b strings.Builder
		b.WriteString(s.renderer.Markdown(m.question.PromptMD))
		b.WriteString("\n")
		b.WriteString(theme.Fail.Render("Your answer:    "+m.question.Choices[m.picked]) + "\n")
		b.WriteString(theme.Pass.Render("Correct answer: " + m.question.Choices[m.question.Answer]))
		if m.question.Explanation != "" {
			b.WriteString("\n\n" + s.renderer.Markdown(m.question.Explanation))
		}
		fmt.Fprintln(s.out, s.renderer.Panel(b.String(), theme.Accent.Render("Review"), "", color))
		s.waitEnter("Press Enter to continue...")
	}
	return nil
}
