package preset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"mcnpath/internal/config"
)

// Discover returns every preset visible to the project: built-ins, the
// project preset directory, and any extra preset_dirs from config. Both
// YAML and Go preset files are collected. Duplicate ids are an error so a
// render never picks silently between two definitions.
func Discover(cfg *config.Config) ([]File, error) {
	files, err := Builtins()
	if err != nil {
		return nil, err
	}
	var dirs []string
	if cfg != nil {
		dirs = cfg.PresetDirs()
	}
	for _, dir := range dirs {
		yamlFiles, err := LoadPresetDir(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, yamlFiles...)
		goFiles, err := LoadGoPresetDir(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, goFiles...)
	}
	seen := make(map[string]string, len(files))
	for _, file := range files {
		id := file.Preset.ID
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("preset: duplicate id %s (%s and %s)", id, existing, file.Path)
		}
		seen[id] = file.Path
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Preset.ID < files[j].Preset.ID })
	return files, nil
}

// Find resolves a preset by id or by file path. A path that exists on disk
// wins over an id so `render --preset ./draft.yaml` works without
// discovery.
func Find(cfg *config.Config, ref string) (File, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return File{}, fmt.Errorf("preset: empty preset reference")
	}
	if info, err := os.Stat(trimmed); err == nil && !info.IsDir() {
		loaded, err := LoadPresetFile(trimmed)
		if err != nil {
			return File{}, err
		}
		if len(loaded) != 1 {
			return File{}, fmt.Errorf("preset: %s holds %d presets, pass an id instead", trimmed, len(loaded))
		}
		return loaded[0], nil
	}
	files, err := Discover(cfg)
	if err != nil {
		return File{}, err
	}
	for _, file := range files {
		if file.Preset.ID == trimmed {
			return file, nil
		}
	}
	return File{}, fmt.Errorf("preset: %s not found (try `mcnpath presets list`)", trimmed)
}
