package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"gopkg.in/yaml.v3"
)

const goPresetFuncName = "PresetDefinitions"

// LoadGoPresetDir evaluates every .go file in dir and collects presets
// declared via PresetDefinitions(). Each returned map re-enters the YAML
// pipeline so Go presets obey the same schema as files.
func LoadGoPresetDir(dir string) ([]File, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("preset: read %s: %w", trimmed, err)
	}
	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		loaded, err := loadGoPresetFile(filepath.Join(trimmed, entry.Name()))
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

func loadGoPresetFile(path string) ([]File, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("preset: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("preset: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(goPresetFuncName)
	if err != nil {
		return nil, fmt.Errorf("preset: %s must define %s() ([]map[string]any, error): %w", path, goPresetFuncName, err)
	}
	defs, callErr := invokePresetFunc(fnValue)
	if callErr != nil {
		return nil, fmt.Errorf("preset: %s: %w", path, callErr)
	}
	var files []File
	for idx, raw := range defs {
		payload, err := yaml.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("preset: %s definition[%d]: %w", path, idx, err)
		}
		parsed, err := ParsePresetYAML(payload)
		if err != nil {
			return nil, fmt.Errorf("preset: %s definition[%d]: %w", path, idx, err)
		}
		for _, p := range parsed {
			files = append(files, File{Preset: p, Path: fmt.Sprintf("%s#%d", path, idx+1)})
		}
	}
	return files, nil
}

func invokePresetFunc(value reflect.Value) ([]map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", goPresetFuncName)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", goPresetFuncName)
	}
	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", goPresetFuncName)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("%s returned non-error second value", goPresetFuncName)
	}
	defsVal := results[0]
	if defs, ok := defsVal.Interface().([]map[string]any); ok {
		return defs, nil
	}
	if defsVal.Kind() == reflect.Slice {
		result := make([]map[string]any, defsVal.Len())
		for i := 0; i < defsVal.Len(); i++ {
			entry, ok := defsVal.Index(i).Interface().(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is not map[string]any", goPresetFuncName, i)
			}
			result[i] = entry
		}
		return result, nil
	}
	return nil, fmt.Errorf("%s must return []map[string]any", goPresetFuncName)
}
