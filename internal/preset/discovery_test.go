package preset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mcnpath/internal/config"
)

func projectConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := config.InitDir(dir); err != nil {
		t.Fatalf("init dir: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	return cfg
}

func TestDiscoverMergesBuiltinsAndProjectPresets(t *testing.T) {
	cfg := projectConfig(t)
	custom := `id: my-pin
mode: tally
stack:
  - cell: 12
    universe: 8
  - cell: 4
`
	path := filepath.Join(cfg.PresetsDir(), "my-pin.yaml")
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("seed preset: %v", err)
	}

	files, err := Discover(cfg)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	ids := make(map[string]string, len(files))
	for _, f := range files {
		ids[f.Preset.ID] = f.Path
	}
	if _, ok := ids["fuel-pin-element"]; !ok {
		t.Fatalf("builtin missing from %v", ids)
	}
	if got := ids["my-pin"]; got != path {
		t.Fatalf("my-pin path = %q, want %q", got, path)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].Preset.ID >= files[i].Preset.ID {
			t.Fatalf("files not sorted by id: %s before %s", files[i-1].Preset.ID, files[i].Preset.ID)
		}
	}
}

func TestDiscoverRejectsDuplicateIDs(t *testing.T) {
	cfg := projectConfig(t)
	clash := `id: simple-nest
mode: tally
stack:
  - cell: 12
    universe: 8
  - cell: 4
`
	if err := os.WriteFile(filepath.Join(cfg.PresetsDir(), "clash.yaml"), []byte(clash), 0o644); err != nil {
		t.Fatalf("seed preset: %v", err)
	}
	_, err := Discover(cfg)
	if err == nil || !strings.Contains(err.Error(), "duplicate id simple-nest") {
		t.Fatalf("err = %v", err)
	}
}

func TestFindPrefersPathOverID(t *testing.T) {
	cfg := projectConfig(t)
	doc := `id: draft
mode: source
stack:
  - cell: 3
    universe: 2
  - cell: 1
`
	path := filepath.Join(t.TempDir(), "draft.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	file, err := Find(cfg, path)
	if err != nil {
		t.Fatalf("find by path: %v", err)
	}
	if file.Preset.ID != "draft" {
		t.Fatalf("preset = %+v", file.Preset)
	}

	file, err = Find(cfg, "deep-triso")
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if file.Path != "builtin:deep-triso" {
		t.Fatalf("path = %q", file.Path)
	}
}

func TestFindReportsUnknownPreset(t *testing.T) {
	cfg := projectConfig(t)
	_, err := Find(cfg, "no-such-preset")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v", err)
	}
}
