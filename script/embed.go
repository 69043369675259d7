package script

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load compiles a script from a path on disk, or by name from the embedded
// scripts when no such file exists.
func Load(name string) (*Driver, error) {
	if data, err := os.ReadFile(name); err == nil {
		return Compile(filepath.Base(name), data)
	}
	clean := cleanScriptPath(name)
	data, err := ScriptsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", name, err)
	}
	return Compile(strings.TrimSuffix(filepath.Base(clean), ".tengo"), data)
}

func Scripts() []string {
	entries, err := ScriptsFS.ReadDir("scripts")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tengo"))
	}
	sort.Strings(names)
	return names
}

func cleanScriptPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "script/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".tengo"
	}
	return "scripts/" + s
}
