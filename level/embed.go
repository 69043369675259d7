package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed courses/*.yaml
var CoursesFS embed.FS

// CourseDir is checked before the embedded courses.
var CourseDir = filepath.Join("level", "courses")

// Load reads a course by name, preferring a copy on disk.
func Load(name string) (*Course, error) {
	clean := cleanCoursePath(name)
	data, err := os.ReadFile(filepath.Join(CourseDir, filepath.FromSlash(clean)))
	if err != nil {
		data, err = fs.ReadFile(CoursesFS, "courses/"+clean)
		if err != nil {
			return nil, fmt.Errorf("level: read %s: %w", name, err)
		}
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: load %s: %w", name, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(clean, filepath.Ext(clean))
	}
	return c, nil
}

func LoadFile(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: load %s: %w", path, err)
	}
	return c, nil
}

func Courses() []string {
	entries, err := CoursesFS.ReadDir("courses")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

func cleanCoursePath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "level/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "courses/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}
