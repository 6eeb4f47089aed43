package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"

	"agentschool/internal/content"
)

func TestApplyEnvDefaultsSeedsMissingKeysOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OPENAI_API_KEY=sk-real-key\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("WIKI_LANG", "")

	defaults := map[string]string{
		"OPENAI_API_KEY": "your-openai-api-key-here",
		"WIKI_LANG":      "en",
	}
	if err := applyEnvDefaults(path, defaults); err != nil {
		t.Fatalf("apply defaults: %v", err)
	}

	envs, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("read env: %v", err)
	}
	if envs["OPENAI_API_KEY"] != "sk-real-key" {
		t.Fatalf("existing value clobbered: %q", envs["OPENAI_API_KEY"])
	}
	if envs["WIKI_LANG"] != "en" {
		t.Fatalf("default not seeded: %q", envs["WIKI_LANG"])
	}
	if os.Getenv("WIKI_LANG") != "en" {
		t.Fatalf("seeded value not exported to the process")
	}
	if os.Getenv("OPENAI_API_KEY") != "sk-real-key" {
		t.Fatalf("file value not exported to the process")
	}
}

func TestApplyEnvDefaultsCreatesFileWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	t.Setenv("NEW_VAR", "")

	if err := applyEnvDefaults(path, map[string]string{"NEW_VAR": "v1"}); err != nil {
		t.Fatalf("apply defaults: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("env file not created: %v", err)
	}
	if !strings.Contains(string(raw), "NEW_VAR") {
		t.Fatalf("default missing from new file: %q", raw)
	}
}

func TestMissingEnvVars(t *testing.T) {
	t.Setenv("SET_VAR", "x")
	t.Setenv("UNSET_VAR", "")
	st := &content.Setup{EnvVars: []string{"SET_VAR", "UNSET_VAR"}}

	missing := missingEnvVars(st)
	if len(missing) != 1 || missing[0] != "UNSET_VAR" {
		t.Fatalf("missing vars: got %v", missing)
	}
	if setupReady(st) {
		t.Fatalf("setup must not be ready with unset vars")
	}

	t.Setenv("UNSET_VAR", "y")
	if !setupReady(st) {
		t.Fatalf("setup should be ready once all vars are set")
	}
}
