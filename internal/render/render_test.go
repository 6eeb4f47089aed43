package render

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"agentschool/internal/lesson"
)

func textPage(title, body string) lesson.Page {
	return lesson.Page{Title: title, Segments: []lesson.Segment{{Kind: lesson.SegmentText, Text: body}}}
}

func imagePage(title string) lesson.Page {
	return lesson.Page{Title: title, Segments: []lesson.Segment{
		{Kind: lesson.SegmentText, Text: "before"},
		{Kind: lesson.SegmentImage, Alt: "diagram", Path: "/nonexistent/diagram.png"},
	}}
}

func TestSupportsNativeImages(t *testing.T) {
	for _, tp := range []string{"iTerm.app", "iTerm2", "WezTerm"} {
		if !SupportsNativeImages(tp) {
			t.Fatalf("%s should support native images", tp)
		}
	}
	for _, tp := range []string{"", "Apple_Terminal", "vscode"} {
		if SupportsNativeImages(tp) {
			t.Fatalf("%s should not support native images", tp)
		}
	}
}

func TestStrategySelection(t *testing.T) {
	var out bytes.Buffer
	native := New(Options{Out: &out, TermProgram: "WezTerm", Profile: termenv.TrueColor})
	raster := New(Options{Out: &out, TermProgram: "xterm", Profile: termenv.TrueColor})

	if got := native.strategyFor(textPage("T", "body")); got != StrategyText {
		t.Fatalf("text page strategy: got %q", got)
	}
	if got := native.strategyFor(imagePage("T")); got != StrategyNative {
		t.Fatalf("native strategy: got %q", got)
	}
	if got := raster.strategyFor(imagePage("T")); got != StrategyRaster {
		t.Fatalf("raster strategy: got %q", got)
	}
}

func TestRenderTextPageShowsTitleAndProgress(t *testing.T) {
	var out bytes.Buffer
	r := New(Options{Out: &out, Width: 80})
	r.Render(textPage("Nodes and Edges", "Plain prose."), 2, 5, "Building Graphs", lipgloss.Color("5"))

	got := out.String()
	if !strings.Contains(got, "Nodes and Edges") {
		t.Fatalf("page title missing from output")
	}
	if !strings.Contains(got, "Page 2/5") {
		t.Fatalf("page position missing from output")
	}
	if !strings.Contains(got, "2/5") {
		t.Fatalf("progress counter missing from output")
	}
}

func TestRenderRasterFallsBackToCaptionOnBadImage(t *testing.T) {
	var out bytes.Buffer
	r := New(Options{Out: &out, Width: 80, Profile: termenv.TrueColor})
	r.Render(imagePage("Diagrams"), 1, 1, "Module", lipgloss.Color("5"))

	if !strings.Contains(out.String(), "[Image: diagram]") {
		t.Fatalf("missing alt-text caption for unreadable image")
	}
}

func TestImageNoticePrintedOnce(t *testing.T) {
	var out bytes.Buffer
	r := New(Options{Out: &out, Width: 80, Profile: termenv.TrueColor})
	page := imagePage("Diagrams")
	r.Render(page, 1, 2, "Module", lipgloss.Color("5"))
	first := out.String()
	out.Reset()
	r.Render(page, 2, 2, "Module", lipgloss.Color("5"))
	second := out.String()

	if !strings.Contains(first, "iTerm2") {
		t.Fatalf("first render should mention better terminals")
	}
	if strings.Contains(second, "iTerm2") {
		t.Fatalf("notice must only appear once per session")
	}
}

func TestRenderNativeFallsBackToCaptionOnUnreadableImage(t *testing.T) {
	var out bytes.Buffer
	r := New(Options{Out: &out, Width: 80, TermProgram: "WezTerm"})
	r.Render(imagePage("Diagrams"), 1, 1, "Module", lipgloss.Color("5"))

	got := out.String()
	if !strings.Contains(got, "[Image: diagram]") {
		t.Fatalf("missing alt-text caption for unreadable image")
	}
	if !strings.Contains(got, "before") {
		t.Fatalf("text segment dropped when the image failed")
	}
	if !strings.Contains(got, "Diagrams") {
		t.Fatalf("page header missing from native render")
	}
}

func TestRasterImageCapsHeightOfTallImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tall.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4000))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close image: %v", err)
	}

	art, err := rasterImage(path, 40, termenv.TrueColor)
	if err != nil {
		t.Fatalf("raster image: %v", err)
	}
	rows := strings.Count(art, "\n") + 1
	if rows > maxRasterHeight/2 {
		t.Fatalf("tall image not clamped: %d rows", rows)
	}
}

func TestProgressBar(t *testing.T) {
	got := ProgressBar(3, 5, 20)
	if !strings.HasPrefix(got, "[") || !strings.Contains(got, "3/5") {
		t.Fatalf("unexpected bar: %q", got)
	}
	filled := strings.Count(got, "█")
	if filled != 12 {
		t.Fatalf("filled cells: got %d want 12", filled)
	}
	if empty := strings.Count(got, "░"); empty != 8 {
		t.Fatalf("empty cells: got %d want 8", empty)
	}

	if full := ProgressBar(5, 5, 20); strings.Count(full, "░") != 0 {
		t.Fatalf("complete bar should have no empty cells: %q", full)
	}
	if over := ProgressBar(9, 5, 20); strings.Count(over, "█") != 20 {
		t.Fatalf("overflow must clamp to width: %q", over)
	}
}
