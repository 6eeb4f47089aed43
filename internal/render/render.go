// Package render draws lesson pages to the terminal. Each page is
// rendered by one of three strategies chosen per call: plain text in a
// panel, text streamed between full-resolution native images, or a
// composite panel with low-res raster approximations of each image.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"agentschool/internal/lesson"
	"agentschool/internal/theme"
)

// Panel border (2) plus padding two columns each side.
const panelOverhead = 6

const progressBarWidth = 20

type Strategy string

const (
	StrategyText   Strategy = "text"
	StrategyNative Strategy = "native"
	StrategyRaster Strategy = "raster"
)

// Terminals known to support the iTerm2 inline image protocol.
var nativeImageTerminals = map[string]struct{}{
	"iTerm.app": {},
	"iTerm2":    {},
	"WezTerm":   {},
}

func SupportsNativeImages(termProgram string) bool {
	_, ok := nativeImageTerminals[termProgram]
	return ok
}

type Options struct {
	Out         io.Writer
	Width       int
	TermProgram string
	Profile     termenv.Profile
	NoImages    bool
	Logger      *log.Logger
}

// Renderer owns the session's drawing state, including the one-time
// image-quality notice flag, which lives here rather than in a
// package global so its lifetime is exactly the render loop's.
type Renderer struct {
	out         io.Writer
	markdown    *glamour.TermRenderer
	width       int
	termProgram string
	profile     termenv.Profile
	noImages    bool
	logger      *log.Logger

	noticeShown bool
}

func New(opts Options) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width-panelOverhead),
	)
	if err != nil {
		renderer = nil
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{
		out:         opts.Out,
		markdown:    renderer,
		width:       width,
		termProgram: opts.TermProgram,
		profile:     opts.Profile,
		noImages:    opts.NoImages,
		logger:      logger,
	}
}

func (r *Renderer) strategyFor(page lesson.Page) Strategy {
	if !page.HasImages() {
		return StrategyText
	}
	if !r.noImages && SupportsNativeImages(r.termProgram) {
		return StrategyNative
	}
	return StrategyRaster
}

// Render draws one lesson page. Side effect only; a failed image never
// aborts the page, it degrades to its alt text.
func (r *Renderer) Render(page lesson.Page, index, total int, moduleTitle string, color lipgloss.Color) {
	r.Clear()
	switch r.strategyFor(page) {
	case StrategyNative:
		r.renderNative(page, index, total, moduleTitle, color)
	case StrategyRaster:
		r.renderRaster(page, index, total, moduleTitle, color)
	default:
		r.renderText(page, index, total, moduleTitle, color)
	}
	fmt.Fprintln(r.out, theme.Muted.Render("  "+theme.Shortcuts["lesson"]))
}

func (r *Renderer) renderText(page lesson.Page, index, total int, moduleTitle string, color lipgloss.Color) {
	body := r.Markdown(page.Content())
	fmt.Fprintln(r.out, r.Panel(body, r.pageHeader(moduleTitle, page.Title, index, total, color), ProgressBar(index, total, progressBarWidth), color))
}

func (r *Renderer) renderNative(page lesson.Page, index, total int, moduleTitle string, color lipgloss.Color) {
	// Images are written straight to the terminal, so only the header
	// goes in a panel; text and images stream beneath it in order.
	fmt.Fprintln(r.out, r.titlePanel(r.pageHeader(moduleTitle, page.Title, index, total, color), color))
	for _, seg := range page.Segments {
		switch seg.Kind {
		case lesson.SegmentText:
			fmt.Fprintln(r.out)
			fmt.Fprint(r.out, r.Markdown(seg.Text))
		case lesson.SegmentImage:
			fmt.Fprintln(r.out)
			if err := drawNativeImage(r.out, seg.Path); err != nil {
				r.logger.Warn("native image draw failed", "path", seg.Path, "err", err)
				fmt.Fprintln(r.out, theme.Caption.Render("  [Image: "+seg.Alt+"]"))
			}
		}
	}
}

func (r *Renderer) renderRaster(page lesson.Page, index, total int, moduleTitle string, color lipgloss.Color) {
	maxImageWidth := r.width - panelOverhead
	var b strings.Builder
	for _, seg := range page.Segments {
		switch seg.Kind {
		case lesson.SegmentText:
			b.WriteString(r.Markdown(seg.Text))
		case lesson.SegmentImage:
			if r.noImages {
				b.WriteString(theme.Caption.Render("  [Image: "+seg.Alt+"]") + "\n")
				continue
			}
			art, err := rasterImage(seg.Path, maxImageWidth, r.profile)
			if err != nil {
				r.logger.Warn("raster image failed", "path", seg.Path, "err", err)
				b.WriteString(theme.Caption.Render("  [Image: "+seg.Alt+"]") + "\n")
				continue
			}
			b.WriteString("\n" + art + "\n")
			b.WriteString(theme.Caption.Render("  "+seg.Alt) + "\n\n")
		}
	}
	fmt.Fprintln(r.out, r.Panel(b.String(), r.pageHeader(moduleTitle, page.Title, index, total, color), ProgressBar(index, total, progressBarWidth), color))
	if !r.noImages {
		r.showImageNotice()
	}
}

// showImageNotice tells the user once per session that diagrams are
// degraded and which terminals draw them at full quality.
func (r *Renderer) showImageNotice() {
	if r.noticeShown {
		return
	}
	r.noticeShown = true
	fmt.Fprintln(r.out, theme.Muted.Render(
		"\n  Note: Diagrams are rendered as low-res terminal art.\n"+
			"  For full quality, use a terminal with inline image support:\n"+
			"  - iTerm2 (recommended): https://iterm2.com\n"+
			"  - WezTerm: https://wezfurlong.org/wezterm"))
}

// RenderTOC shows the lesson overview before the walkthrough starts.
func (r *Renderer) RenderTOC(pages []lesson.Page, moduleTitle string, color lipgloss.Color) {
	r.Clear()
	lines := make([]string, 0, len(pages)+2)
	lines = append(lines, fmt.Sprintf("Lesson Overview — %d pages", len(pages)), "")
	for i, p := range pages {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, p.Title))
	}
	header := lipgloss.NewStyle().Foreground(color).Bold(true).Render(moduleTitle)
	fmt.Fprintln(r.out, r.Panel(strings.Join(lines, "\n"), header, "", color))
}

func (r *Renderer) pageHeader(moduleTitle, pageTitle string, index, total int, color lipgloss.Color) string {
	module := lipgloss.NewStyle().Foreground(color).Bold(true).Render(moduleTitle)
	return fmt.Sprintf("%s · %s — Page %d/%d", module, pageTitle, index, total)
}

// Clear pushes old content into scrollback. A rule plus blank lines is
// more consistent across terminals than an explicit clear sequence,
// which some terminals apply to scrollback and others do not.
func (r *Renderer) Clear() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, theme.Muted.Render(strings.Repeat("─", r.width)))
	fmt.Fprintln(r.out)
}

// Markdown renders a Markdown fragment with the session renderer,
// falling back to the raw text when glamour is unavailable.
func (r *Renderer) Markdown(md string) string {
	if r.markdown == nil {
		return md + "\n"
	}
	out, err := r.markdown.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

func (r *Renderer) Panel(body, header, footer string, color lipgloss.Color) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header + "\n\n")
	}
	b.WriteString(strings.TrimRight(body, "\n"))
	if footer != "" {
		b.WriteString("\n\n" + theme.Muted.Render(footer))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Width(r.width - 2).
		Render(b.String())
}

func (r *Renderer) titlePanel(header string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		Render(header)
}

// ProgressBar builds the fixed-width walkthrough indicator, e.g.
// [████████░░░░░░░░░░░░] 3/5.
func ProgressBar(current, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := width * current / total
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		current, total)
}
