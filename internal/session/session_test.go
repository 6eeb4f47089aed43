package session

import (
	"strings"
	"testing"

	"agentschool/internal/config"
	"agentschool/internal/content"
)

func TestCourseArtUsesManifestArt(t *testing.T) {
	course := content.Course{Color: "magenta", Art: "  [o_o]\n   | |\n"}
	got := courseArt(course)
	if !strings.Contains(got, "[o_o]") {
		t.Fatalf("manifest art missing from output: %q", got)
	}
}

func TestCourseArtFallsBackToDefault(t *testing.T) {
	for _, art := range []string{"", "  \n\n  "} {
		got := courseArt(content.Course{Art: art})
		if !strings.Contains(got, "Agent School") {
			t.Fatalf("default art not used for art %q: %q", art, got)
		}
	}
}

func TestRunnerForPrefersOverride(t *testing.T) {
	course := content.Course{Runner: []string{"python3"}}
	s := &Session{cfg: config.Config{RunnerOverride: "python3 -u"}}

	got := s.runnerFor(course)
	if len(got) != 2 || got[0] != "python3" || got[1] != "-u" {
		t.Fatalf("override not split into fields: %v", got)
	}
}

func TestRunnerForIgnoresBlankOverride(t *testing.T) {
	course := content.Course{Runner: []string{"python3"}}
	for _, override := range []string{"", "   ", "\t"} {
		s := &Session{cfg: config.Config{RunnerOverride: override}}
		got := s.runnerFor(course)
		if len(got) != 1 || got[0] != "python3" {
			t.Fatalf("blank override %q must fall back to course runner, got %v", override, got)
		}
	}
}
