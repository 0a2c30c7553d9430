// internal/config/config.go
//
// This package handles configuration and the .mcnpath directory
// structure. Every project the wizard runs in gets a .mcnpath/ folder
// holding presets, generated output, and logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the name of the directory created in each project.
	Dir = ".mcnpath"
)

const defaultConfigYAML = `# mcnpath project configuration
version: 1

# Seed values for the card prompts.
default_particle: n
default_tally: 4
default_distribution: 1

# Abort the universe climb after this many levels.
max_depth: 32

# Extra directories to search for presets, absolute or relative to the
# project. .mcnpath/presets is always searched.
# preset_dirs:
#   - ../shared-presets

# Where generated cards and verification decks are written.
output_dir: .mcnpath/output

# Color output: auto, always, or never.
color: auto
`

// ProjectConfig models .mcnpath/config.yaml.
type ProjectConfig struct {
	Version             int      `yaml:"version"`
	DefaultParticle     string   `yaml:"default_particle"`
	DefaultTally        int      `yaml:"default_tally"`
	DefaultDistribution int      `yaml:"default_distribution"`
	MaxDepth            int      `yaml:"max_depth"`
	PresetDirs          []string `yaml:"preset_dirs,omitempty"`
	OutputDir           string   `yaml:"output_dir"`
	Color               string   `yaml:"color"`
}

// Config holds the runtime configuration for one project.
type Config struct {
	// ProjectDir is the directory the user ran mcnpath from.
	ProjectDir string

	// ProjectConfigDir is ProjectDir/.mcnpath.
	ProjectConfigDir string

	Project ProjectConfig
}

// InitDir creates the .mcnpath directory structure in the given
// project directory and seeds a commented config.yaml when none
// exists. Called on startup.
//
// Structure created:
// .mcnpath/
// ├── presets/   <- User preset files (YAML or Go)
// ├── output/    <- Generated cards and verification decks
// └── logs/      <- Session journal and diagnostic log
func InitDir(projectDir string) error {
	dir := filepath.Join(projectDir, Dir)
	subdirs := []string{
		filepath.Join(dir, "presets"),
		filepath.Join(dir, "output"),
		filepath.Join(dir, "logs"),
	}
	for _, d := range subdirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(dir, "config.yaml"))
}

// New creates a Config for the given project directory, loading
// .mcnpath/config.yaml when present and falling back to defaults.
func New(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:       projectDir,
		ProjectConfigDir: filepath.Join(projectDir, Dir),
		Project:          defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PresetsDir returns the project's own preset directory.
func (c *Config) PresetsDir() string {
	return filepath.Join(c.ProjectConfigDir, "presets")
}

// PresetDirs returns every directory to search for presets: the
// project's own, then any configured extras.
func (c *Config) PresetDirs() []string {
	dirs := []string{c.PresetsDir()}
	return append(dirs, c.Project.PresetDirs...)
}

// OutputDir returns where generated artifacts are written.
func (c *Config) OutputDir() string {
	return c.Project.OutputDir
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.ProjectConfigDir, "logs")
}

// JournalPath returns the session journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "session.log")
}

// AppLogPath returns the diagnostic log file.
func (c *Config) AppLogPath() string {
	return filepath.Join(c.LogsDir(), "mcnpath.log")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.ProjectConfigDir, "config.yaml")
}

// MaxDepth returns the configured climb depth guard.
func (c *Config) MaxDepth() int {
	return c.Project.MaxDepth
}

// ColorEnabled resolves the color setting against whether stdout is a
// terminal, which the caller determines.
func (c *Config) ColorEnabled(stdoutIsTerminal bool) bool {
	switch c.Project.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return stdoutIsTerminal
	}
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.ProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:             1,
		DefaultParticle:     "n",
		DefaultTally:        4,
		DefaultDistribution: 1,
		MaxDepth:            32,
		OutputDir:           filepath.Join(Dir, "output"),
		Color:               "auto",
	}
}

func (pc *ProjectConfig) applyDefaults() {
	def := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = def.Version
	}
	if strings.TrimSpace(pc.DefaultParticle) == "" {
		pc.DefaultParticle = def.DefaultParticle
	}
	if pc.DefaultTally == 0 {
		pc.DefaultTally = def.DefaultTally
	}
	if pc.DefaultDistribution == 0 {
		pc.DefaultDistribution = def.DefaultDistribution
	}
	if pc.MaxDepth == 0 {
		pc.MaxDepth = def.MaxDepth
	}
	if strings.TrimSpace(pc.OutputDir) == "" {
		pc.OutputDir = def.OutputDir
	}
	if strings.TrimSpace(pc.Color) == "" {
		pc.Color = def.Color
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.DefaultParticle = strings.ToLower(strings.TrimSpace(pc.DefaultParticle))
	pc.Color = strings.ToLower(strings.TrimSpace(pc.Color))
	pc.OutputDir = resolvePath(base, pc.OutputDir)
	for i := range pc.PresetDirs {
		pc.PresetDirs[i] = resolvePath(base, pc.PresetDirs[i])
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.DefaultTally < 1 {
		return fmt.Errorf("default_tally must be >= 1")
	}
	if pc.DefaultDistribution < 1 {
		return fmt.Errorf("default_distribution must be >= 1")
	}
	if pc.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be >= 1")
	}
	switch pc.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be 'auto', 'always', or 'never'")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0644)
}
