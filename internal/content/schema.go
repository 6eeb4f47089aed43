package content

import (
	"fmt"
	"regexp"
)

const (
	CourseKind             = "course"
	SupportedSchemaVersion = 1

	StatusAvailable  = "available"
	StatusComingSoon = "coming_soon"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

// Course is one installable course: a course.yaml manifest plus module
// directories holding lesson documents, challenge files, and example
// scripts.
type Course struct {
	Kind          string   `yaml:"kind"`
	SchemaVersion int      `yaml:"schema_version"`
	CourseID      string   `yaml:"course_id"`
	Title         string   `yaml:"title"`
	DescriptionMD string   `yaml:"description_md"`
	Status        string   `yaml:"status"`
	Color         string   `yaml:"color"`
	Art           string   `yaml:"art"`
	Runner        []string `yaml:"runner"`
	Modules       []Module `yaml:"modules"`

	Path string `yaml:"-"`
}

type Module struct {
	ModuleID  string     `yaml:"module_id"`
	Title     string     `yaml:"title"`
	Directory string     `yaml:"directory"`
	Lesson    string     `yaml:"lesson"`
	Examples  []string   `yaml:"examples"`
	Quiz      []Question `yaml:"quiz"`
	Challenge *Challenge `yaml:"challenge"`
	Setup     *Setup     `yaml:"setup"`
}

type Question struct {
	PromptMD    string   `yaml:"prompt_md"`
	Choices     []string `yaml:"choices"`
	Answer      int      `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

// Challenge is static configuration for a module's coding exercise.
// It is never mutated at runtime; the learner edits the referenced
// file, not this record.
type Challenge struct {
	File  string   `yaml:"file"`
	Topic string   `yaml:"topic"`
	Hints []string `yaml:"hints"`
}

// Setup describes an external dependency a module needs before its
// challenge or examples will run (a local service, credentials).
type Setup struct {
	Name         string            `yaml:"name"`
	Instructions []string          `yaml:"instructions"`
	MakeTarget   string            `yaml:"make_target"`
	EnvVars      []string          `yaml:"env_vars"`
	EnvValues    map[string]string `yaml:"env_values"`
}

func (c Course) Validate() error {
	if c.Kind != CourseKind {
		return fmt.Errorf("kind must be %q", CourseKind)
	}
	if c.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if c.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported course schema_version %d (max supported %d)", c.SchemaVersion, SupportedSchemaVersion)
	}
	if !idPattern.MatchString(c.CourseID) {
		return fmt.Errorf("invalid course_id %q", c.CourseID)
	}
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	switch c.Status {
	case "", StatusAvailable, StatusComingSoon:
	default:
		return fmt.Errorf("invalid status %q", c.Status)
	}
	seen := map[string]struct{}{}
	for _, m := range c.Modules {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("module %q: %w", m.ModuleID, err)
		}
		if _, ok := seen[m.ModuleID]; ok {
			return fmt.Errorf("duplicate module_id %q", m.ModuleID)
		}
		seen[m.ModuleID] = struct{}{}
	}
	return nil
}

func (m Module) Validate() error {
	if m.ModuleID == "" {
		return fmt.Errorf("module_id is required")
	}
	if m.Title == "" {
		return fmt.Errorf("title is required")
	}
	if m.Directory == "" {
		return fmt.Errorf("directory is required")
	}
	for i, q := range m.Quiz {
		if q.PromptMD == "" {
			return fmt.Errorf("quiz[%d].prompt_md is required", i)
		}
		if len(q.Choices) < 2 {
			return fmt.Errorf("quiz[%d] needs at least two choices", i)
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return fmt.Errorf("quiz[%d].answer index %d out of range", i, q.Answer)
		}
	}
	if m.Challenge != nil && m.Challenge.File == "" {
		return fmt.Errorf("challenge.file is required")
	}
	if m.Setup != nil && m.Setup.Name == "" {
		return fmt.Errorf("setup.name is required")
	}
	return nil
}
