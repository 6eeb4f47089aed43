package content

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// LoadCourses reads every <root>/<dir>/course.yaml, validates it, and
// returns the courses sorted by ID. Directories without a manifest are
// skipped so the courses tree can hold shared assets too.
func (l *FSLoader) LoadCourses(root string) ([]Course, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	courses := make([]Course, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		coursePath := filepath.Join(root, entry.Name())
		manifest := filepath.Join(coursePath, "course.yaml")
		if _, err := os.Stat(manifest); err != nil {
			continue
		}
		course, err := readCourse(manifest)
		if err != nil {
			return nil, fmt.Errorf("load course %s: %w", coursePath, err)
		}
		course.Path = coursePath
		applyCourseDefaults(&course)
		courses = append(courses, course)
	}

	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseID < courses[j].CourseID })
	return courses, nil
}

func readCourse(path string) (Course, error) {
	var course Course
	b, err := os.ReadFile(path)
	if err != nil {
		return course, err
	}
	if err := yaml.Unmarshal(b, &course); err != nil {
		return course, err
	}
	if err := course.Validate(); err != nil {
		return course, err
	}
	return course, nil
}

func applyCourseDefaults(course *Course) {
	if course.Status == "" {
		course.Status = StatusAvailable
	}
	if len(course.Runner) == 0 {
		course.Runner = []string{"python3"}
	}
	for i := range course.Modules {
		if course.Modules[i].Lesson == "" {
			course.Modules[i].Lesson = "README.md"
		}
	}
}

func FindCourse(courses []Course, courseID string) (Course, bool) {
	for _, c := range courses {
		if c.CourseID == courseID {
			return c, true
		}
	}
	return Course{}, false
}

func (c Course) FindModule(moduleID string) (Module, bool) {
	for _, m := range c.Modules {
		if m.ModuleID == moduleID {
			return m, true
		}
	}
	return Module{}, false
}

// ModuleDir is the module's asset directory on disk.
func (c Course) ModuleDir(m Module) string {
	return filepath.Join(c.Path, m.Directory)
}

// LessonPath is the module's lesson document.
func (c Course) LessonPath(m Module) string {
	return filepath.Join(c.ModuleDir(m), m.Lesson)
}

// ModuleDescription returns the first prose line of the module's
// lesson document for menu previews: headings, markers, and blank
// lines are skipped and long lines are truncated.
func (c Course) ModuleDescription(m Module) string {
	f, err := os.Open(c.LessonPath(m))
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "<!--") {
			continue
		}
		if len(line) > 100 {
			return line[:97] + "..."
		}
		return line
	}
	return ""
}
