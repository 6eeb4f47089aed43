// Package theme holds the platform's visual identity: banner art,
// per-course colors, keyboard hints, and the tip pool.
package theme

import "github.com/charmbracelet/lipgloss"

const WelcomeBanner = `
    _    ____ _____ _   _ _____ ____   ____ _   _  ___   ___  _
   / \  / ___| ____| \ | |_   _/ ___| / ___| | | |/ _ \ / _ \| |
  / _ \| |  _|  _| |  \| | | | \___ \| |   | |_| | | | | | | | |
 / ___ \ |_| | |___| |\  | | |  ___) | |___|  _  | |_| | |_| | |___
/_/   \_\____|_____|_| \_| |_| |____/ \____|_| |_|\___/ \___/|_____|
`

const DefaultArt = `
      .---.
     / o o \    Agent School
    |   ^   |   Learning Platform
     \ --- /
      '---'
`

var defaultColor = lipgloss.Color("#5EC2FF")

// courseColors maps the color names used in course.yaml to concrete
// terminal colors.
var courseColors = map[string]lipgloss.Color{
	"cyan":    lipgloss.Color("#5EEBFF"),
	"green":   lipgloss.Color("#67F0A8"),
	"magenta": lipgloss.Color("#FF6F91"),
	"yellow":  lipgloss.Color("#FFC857"),
	"blue":    lipgloss.Color("#5EC2FF"),
}

// CourseColor resolves a course's declared color name, falling back to
// the default accent for unknown names.
func CourseColor(name string) lipgloss.Color {
	if c, ok := courseColors[name]; ok {
		return c
	}
	return defaultColor
}

var (
	Accent  = lipgloss.NewStyle().Foreground(defaultColor).Bold(true)
	Pass    = lipgloss.NewStyle().Foreground(lipgloss.Color("#67F0A8")).Bold(true)
	Fail    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6F91")).Bold(true)
	Warn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857")).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6"))
	Caption = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")).Italic(true)
)

// Shortcuts are the one-line key hints shown under each screen.
var Shortcuts = map[string]string{
	"course_picker": "[Enter] Select  [Ctrl+C] Quit",
	"module_picker": "[Enter] Select  [Ctrl+C] Quit",
	"module_menu":   "[Enter] Select  [Ctrl+C] Quit",
	"lesson":        "[Enter] Next Page  [Ctrl+C] Quit",
	"quiz":          "[Enter] Confirm Answer  [Ctrl+C] Quit",
	"challenge":     "[Enter] Select  [Ctrl+C] Quit",
}

// Tips shown after each action; order is irrelevant, selection is random.
var Tips = []string{
	"Tip: Use the flipped prompt when you're stuck -- ask the AI what it needs from you.",
	"Did you know? ReAct combines reasoning and acting for better agent decision-making.",
	"Tip: RAG systems work best when documents are split at natural boundaries.",
	"Tip: Always test prompts with edge cases before deploying to production.",
	"Tip: Knowledge graphs capture relationships that vector search alone can miss.",
	"Tip: Few-shot prompting can dramatically improve output quality with just 2-3 examples.",
	"Did you know? Agents use tool descriptions to decide which tool to call.",
	"Tip: Set temperature to 0 for deterministic outputs, higher for creative tasks.",
	"Tip: Chain-of-thought prompting helps models reason through multi-step problems.",
	"Did you know? Graph-based orchestration gives you fine-grained control over agent flow.",
	"Tip: Document your prompt templates -- future you will thank present you.",
	"Tip: Start with simple chains before building complex agent architectures.",
	"Did you know? Embedding models convert text into vectors for semantic search.",
	"Tip: Use streaming for long-running agent tasks to provide real-time feedback.",
	"Tip: Validate challenge solutions often -- small fixes are easier than big rewrites.",
	"Tip: Multi-agent systems work best with clearly defined roles and responsibilities.",
}
