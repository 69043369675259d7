package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed presets/*.yaml
var PresetsFS embed.FS

// PresetDir is checked before the embedded presets so edits on disk win
// without a rebuild.
var PresetDir = filepath.Join("config", "presets")

var ErrUnknownPreset = errors.New("config: unknown preset")

// Load reads and parses a preset by name ("arcade", "arcade.yaml" or
// "presets/arcade.yaml").
func Load(name string) (Settings, error) {
	data, err := Read(name)
	if err != nil {
		return Settings{}, err
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("config: load %s: %w", name, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(cleanPresetPath(name), ".yaml")
	}
	return s, nil
}

// LoadFile parses a settings file at an explicit path, bypassing presets.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return s, nil
}

// Read returns the raw preset bytes, disk first.
func Read(name string) ([]byte, error) {
	clean := cleanPresetPath(name)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownPreset)
	}
	if data, err := os.ReadFile(diskPresetPath(clean)); err == nil {
		return data, nil
	}
	data, err := PresetsFS.ReadFile("presets/" + clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
		}
		return nil, fmt.Errorf("config: read %s: %w", name, err)
	}
	return data, nil
}

// Presets lists the embedded preset names.
func Presets() []string {
	entries, err := PresetsFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isSettingsFile(e.Name()) {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	sort.Strings(names)
	return names
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPresetPath(cleanPresetPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPresetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "config/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "presets/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func diskPresetPath(clean string) string {
	return filepath.Join(PresetDir, filepath.FromSlash(clean))
}
