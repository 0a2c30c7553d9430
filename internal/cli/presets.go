package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mcnpath/internal/config"
	"mcnpath/internal/preset"
	"mcnpath/internal/render"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List, inspect, and lint presets",
	Long: `Presets are saved wizard sessions: YAML files describing a
containment stack plus card defaults. They are discovered from the
built-ins, .mcnpath/presets, and any preset_dirs in config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runPresetsList,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every discovered preset",
	Args:  cobra.NoArgs,
	RunE:  runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a preset definition and its rendered paths",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

var presetsLintCmd = &cobra.Command{
	Use:   "lint [path...]",
	Short: "Check presets for schema and stack problems",
	Long: `Without arguments every discovered preset is checked. With
arguments only the named YAML files or directories are loaded. All
findings are reported before the command fails.`,
	RunE: runPresetsLint,
}

func init() {
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	presetsCmd.AddCommand(presetsLintCmd)
	rootCmd.AddCommand(presetsCmd)
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(projectDir)
	if err != nil {
		return err
	}
	files, err := preset.Discover(cfg)
	if err != nil {
		return err
	}
	for _, f := range files {
		title := f.Preset.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-8s %s\n", f.Preset.ID, f.Preset.Mode, title)
	}
	return nil
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(projectDir)
	if err != nil {
		return err
	}
	file, err := preset.Find(cfg, args[0])
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(file.Preset)
	if err != nil {
		return fmt.Errorf("presets: encode %s: %w", file.Preset.ID, err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n%s", file.Path, data)
	if stack, err := file.Preset.ToStack(); err == nil {
		for _, p := range render.Paths(stack) {
			fmt.Fprintf(out, "# path: %s\n", p)
		}
	}
	return nil
}

func runPresetsLint(cmd *cobra.Command, args []string) error {
	files, findings, err := lintTargets(args)
	if err != nil {
		return err
	}
	for _, f := range files {
		for _, e := range preset.Lint(f.Preset) {
			findings = append(findings, fmt.Sprintf("%s: %v", f.Path, e))
		}
	}
	for _, finding := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), finding)
	}
	if len(findings) > 0 {
		return fmt.Errorf("presets: %d problem(s)", len(findings))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d preset(s) clean\n", len(files))
	return nil
}

// lintTargets loads the presets to check: the full discovery set when no
// paths were given, otherwise exactly the named files and directories.
// A named file that fails to load becomes a finding rather than aborting
// the run, so one broken file does not hide problems in the rest.
func lintTargets(args []string) ([]preset.File, []string, error) {
	if len(args) == 0 {
		cfg, err := config.New(projectDir)
		if err != nil {
			return nil, nil, err
		}
		files, err := preset.Discover(cfg)
		return files, nil, err
	}
	var files []preset.File
	var findings []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("presets: %w", err)
		}
		if info.IsDir() {
			yamlFiles, err := preset.LoadPresetDir(arg)
			if err != nil {
				findings = append(findings, fmt.Sprintf("%s: %v", arg, err))
			} else {
				files = append(files, yamlFiles...)
			}
			goFiles, err := preset.LoadGoPresetDir(arg)
			if err != nil {
				findings = append(findings, fmt.Sprintf("%s: %v", arg, err))
			} else {
				files = append(files, goFiles...)
			}
			continue
		}
		loaded, err := preset.LoadPresetFile(arg)
		if err != nil {
			findings = append(findings, fmt.Sprintf("%s: %v", arg, err))
			continue
		}
		files = append(files, loaded...)
	}
	return files, findings, nil
}
