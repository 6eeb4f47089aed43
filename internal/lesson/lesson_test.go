package lesson

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLesson(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}
	return path
}

func TestParseMissingFileYieldsNoPages(t *testing.T) {
	pages, err := Parse(filepath.Join(t.TempDir(), "README.md"))
	if err != nil {
		t.Fatalf("parse missing file: %v", err)
	}
	if pages != nil {
		t.Fatalf("expected nil pages, got %d", len(pages))
	}
}

func TestParseWithoutMarkersYieldsNoPages(t *testing.T) {
	path := writeLesson(t, "# Just a README\n\nNo pagination here.\n")
	pages, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected 0 pages, got %d", len(pages))
	}
}

func TestParseSplitsPagesAndTrimsTitles(t *testing.T) {
	path := writeLesson(t, `# Intro text is ignored

<!-- lesson:page   First Page   -->

Hello.

<!-- lesson:page Second Page -->

World.
`)
	pages, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Title != "First Page" {
		t.Fatalf("title not trimmed: %q", pages[0].Title)
	}
	if pages[0].Content() != "Hello." {
		t.Fatalf("unexpected page 1 content: %q", pages[0].Content())
	}
	if pages[1].Content() != "World." {
		t.Fatalf("unexpected page 2 content: %q", pages[1].Content())
	}
}

func TestParseExcludesContentAfterEndMarker(t *testing.T) {
	path := writeLesson(t, `<!-- lesson:page Only Page -->

Visible.

<!-- lesson:end -->

Maintainer notes that must never render.
`)
	pages, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if got := pages[0].Content(); got != "Visible." {
		t.Fatalf("end marker leaked content: %q", got)
	}
}

func TestParseDropsEmptyPages(t *testing.T) {
	path := writeLesson(t, `<!-- lesson:page Empty -->

<!-- lesson:page Full -->

Something.
`)
	pages, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected empty page to be dropped, got %d pages", len(pages))
	}
	if pages[0].Title != "Full" {
		t.Fatalf("wrong surviving page: %q", pages[0].Title)
	}
}

func TestParseCollapsesBlankRuns(t *testing.T) {
	path := writeLesson(t, "<!-- lesson:page P -->\n\nA.\n\n\n\n\nB.\n")
	pages, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := pages[0].Content(); got != "A.\n\nB." {
		t.Fatalf("blank run not collapsed: %q", got)
	}
}

func TestParseSplitsImageSegmentsInOrder(t *testing.T) {
	path := writeLesson(t, `<!-- lesson:page Diagrams -->

Before the image.

![State graph](images/graph.png)

After the image.
`)
	pages, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	segs := pages[0].Segments
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[0].Kind != SegmentText || segs[0].Text != "Before the image." {
		t.Fatalf("unexpected first segment: %+v", segs[0])
	}
	if segs[1].Kind != SegmentImage || segs[1].Alt != "State graph" {
		t.Fatalf("unexpected image segment: %+v", segs[1])
	}
	if segs[2].Kind != SegmentText || segs[2].Text != "After the image." {
		t.Fatalf("unexpected last segment: %+v", segs[2])
	}
	if !pages[0].HasImages() {
		t.Fatalf("HasImages should be true")
	}
}

func TestParseResolvesImagePathsAgainstLessonDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs", "README.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := "<!-- lesson:page P -->\n\n![up](../assets/pic.png)\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}
	pages, err := Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := filepath.Join(dir, "assets", "pic.png")
	if got := pages[0].Segments[0].Path; got != want {
		t.Fatalf("image path not resolved: got %q want %q", got, want)
	}
}

func TestContentJoinsOnlyTextSegments(t *testing.T) {
	p := Page{Segments: []Segment{
		{Kind: SegmentText, Text: "one"},
		{Kind: SegmentImage, Alt: "pic", Path: "/tmp/pic.png"},
		{Kind: SegmentText, Text: "two"},
	}}
	if got := p.Content(); got != "one\n\ntwo" {
		t.Fatalf("unexpected joined content: %q", got)
	}
}
