package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// File pairs a parsed preset with its on-disk source.
type File struct {
	Preset Preset
	Path   string
}

type presetList struct {
	Presets []Preset `yaml:"presets"`
}

// ParsePresetYAML decodes one document holding either a single preset or a
// presets: list and validates and normalizes every entry.
func ParsePresetYAML(data []byte) ([]Preset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("preset: payload is empty")
	}
	var list presetList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("preset: decode: %w", err)
	}
	candidates := list.Presets
	if len(candidates) == 0 {
		var single Preset
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("preset: decode: %w", err)
		}
		candidates = []Preset{single}
	}
	out := make([]Preset, 0, len(candidates))
	for idx, p := range candidates {
		if err := p.Validate(); err != nil {
			if len(candidates) > 1 {
				return nil, fmt.Errorf("preset[%d]: %w", idx, err)
			}
			return nil, err
		}
		out = append(out, p.Normalized())
	}
	return out, nil
}

// LoadPresetFile reads a YAML file from disk and returns the presets it
// declares. Files holding a presets: list yield one entry per preset with a
// #N suffix on the path.
func LoadPresetFile(path string) ([]File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("preset: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("preset: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	presets, err := ParsePresetYAML(data)
	if err != nil {
		return nil, fmt.Errorf("preset: %s: %w", path, err)
	}
	clean := filepath.Clean(path)
	if len(presets) == 1 {
		return []File{{Preset: presets[0], Path: clean}}, nil
	}
	files := make([]File, 0, len(presets))
	for idx, p := range presets {
		files = append(files, File{Preset: p, Path: fmt.Sprintf("%s#%d", clean, idx+1)})
	}
	return files, nil
}

// LoadPresetDir scans a directory for *.yaml presets and returns the parsed
// entries. Missing directories are treated as "no presets" so a fresh
// project starts clean.
func LoadPresetDir(dir string) ([]File, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("preset: read %s: %w", trimmed, err)
	}
	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isYAMLFile(name) {
			continue
		}
		loaded, err := LoadPresetFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		files = append(files, loaded...)
	}
	if len(files) == 0 {
		return nil, nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
