package preset

import "testing"

func TestBuiltinsParseAndPassLint(t *testing.T) {
	files, err := Builtins()
	if err != nil {
		t.Fatalf("builtins: %v", err)
	}
	want := []string{
		"simple-nest",
		"fuel-pin-element",
		"range-block",
		"union-corners",
		"deep-triso",
		"hex-element",
	}
	if len(files) != len(want) {
		t.Fatalf("len = %d, want %d", len(files), len(want))
	}
	ids := make(map[string]bool, len(files))
	for _, f := range files {
		ids[f.Preset.ID] = true
		if f.Preset.Expect == nil {
			t.Fatalf("builtin %s has no expect block", f.Preset.ID)
		}
		if errs := Lint(f.Preset); len(errs) != 0 {
			t.Fatalf("builtin %s lint: %v", f.Preset.ID, errs)
		}
	}
	for _, id := range want {
		if !ids[id] {
			t.Fatalf("builtin %s missing", id)
		}
	}
}
