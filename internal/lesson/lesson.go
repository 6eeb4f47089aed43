// Package lesson parses marker-delimited lesson documents into pages.
//
// Authors paginate a module README with comment markers:
//
//	<!-- lesson:page Page Title --> starts a new page
//	<!-- lesson:end -->             stops parsing (rest is draft space)
//
// Markdown image references inside a page become image segments with
// paths resolved relative to the document, so callers never re-resolve.
package lesson

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	pageMarker = regexp.MustCompile(`<!--\s*lesson:page\s+(.*?)\s*-->`)
	endMarker  = regexp.MustCompile(`<!--\s*lesson:end\s*-->`)
	imageRef   = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	blankRun   = regexp.MustCompile(`\n{3,}`)
)

type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentImage SegmentKind = "image"
)

// Segment is one run of page content: either prose or an image
// reference. Segments keep document order; where an image sits
// relative to the surrounding prose is content, not decoration.
type Segment struct {
	Kind SegmentKind
	Text string // SegmentText
	Alt  string // SegmentImage
	Path string // SegmentImage, absolute
}

// Page is one titled, renderable unit of lesson content.
type Page struct {
	Title    string
	Segments []Segment
}

// Content joins the page's text segments. Image segments are elided;
// use Segments when positions matter.
func (p Page) Content() string {
	parts := make([]string, 0, len(p.Segments))
	for _, s := range p.Segments {
		if s.Kind == SegmentText {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (p Page) HasImages() bool {
	for _, s := range p.Segments {
		if s.Kind == SegmentImage {
			return true
		}
	}
	return false
}

// Parse reads a lesson document and splits it into pages.
//
// A missing file and a document without page markers both yield an
// empty slice: the module simply has no lesson yet. Text before the
// first page marker is front-matter and is discarded, as is anything
// at or after the end marker. Pages left empty after trimming are
// dropped.
func Parse(path string) ([]Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)

	text := string(raw)
	if loc := endMarker.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	marks := pageMarker.FindAllStringSubmatchIndex(text, -1)
	if len(marks) == 0 {
		return nil, nil
	}

	pages := make([]Page, 0, len(marks))
	for i, m := range marks {
		title := strings.TrimSpace(text[m[2]:m[3]])
		bodyStart := m[1]
		bodyEnd := len(text)
		if i+1 < len(marks) {
			bodyEnd = marks[i+1][0]
		}
		segments := splitSegments(text[bodyStart:bodyEnd], dir)
		if len(segments) == 0 {
			continue
		}
		pages = append(pages, Page{Title: title, Segments: segments})
	}
	return pages, nil
}

// splitSegments partitions a page body on image references, yielding
// prose and image segments in source order. Runs of three or more
// blank lines collapse to one and each prose chunk is trimmed; chunks
// that trim to nothing are dropped.
func splitSegments(body, dir string) []Segment {
	refs := imageRef.FindAllStringSubmatchIndex(body, -1)

	segments := make([]Segment, 0, 2*len(refs)+1)
	appendText := func(chunk string) {
		chunk = blankRun.ReplaceAllString(chunk, "\n\n")
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			segments = append(segments, Segment{Kind: SegmentText, Text: chunk})
		}
	}

	prev := 0
	for _, r := range refs {
		appendText(body[prev:r[0]])
		alt := body[r[2]:r[3]]
		rel := body[r[4]:r[5]]
		segments = append(segments, Segment{
			Kind: SegmentImage,
			Alt:  alt,
			Path: resolveImagePath(dir, rel),
		})
		prev = r[1]
	}
	appendText(body[prev:])
	return segments
}

func resolveImagePath(dir, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(dir, ref)
}
