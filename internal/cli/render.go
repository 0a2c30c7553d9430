package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mcnpath/internal/artifact"
	"mcnpath/internal/cards"
	"mcnpath/internal/config"
	"mcnpath/internal/geometry"
	"mcnpath/internal/logging"
	"mcnpath/internal/preset"
	"mcnpath/internal/render"
	"mcnpath/internal/wizard"
)

var (
	renderPreset string
	renderVerify bool
	renderOut    string
	renderStdout bool
	renderSet    []string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate cards from a preset without the interview",
	Long: `Renders the cards a preset describes. The preset is looked up by
id among the discovered presets, or loaded directly when the argument
is a file path. --set overrides individual fields before validation,
so one preset can serve several tallies:

  mcnpath render --preset fuel-pin-element --set tally=14 --set particle=p

By default the cards, a stack summary, and the verification deck are
written to the project output directory; --stdout prints the card
block alone so it can be piped into a deck.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderPreset, "preset", "", "preset id or YAML file path")
	renderCmd.Flags().BoolVar(&renderVerify, "verify", false, "include the verification deck")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "write artifacts to this directory instead of .mcnpath/output")
	renderCmd.Flags().BoolVar(&renderStdout, "stdout", false, "print the cards instead of writing artifacts")
	renderCmd.Flags().StringArrayVar(&renderSet, "set", nil, "override a preset field (key=value, repeatable)")
	renderCmd.MarkFlagRequired("preset")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(projectDir)
	if err != nil {
		return err
	}
	file, err := preset.Find(cfg, renderPreset)
	if err != nil {
		return err
	}
	p, err := applyOverrides(file.Preset, renderSet)
	if err != nil {
		return err
	}
	if errs := preset.Lint(p); len(errs) > 0 {
		return lintFailure(file.Path, errs)
	}
	stack, err := p.ToStack()
	if err != nil {
		return err
	}
	set, err := cards.Compose(p.Mode, p.Defaults(), p.Volume, p.Extras, stack)
	if err != nil {
		return err
	}

	if log, err := logging.New(projectDir); err == nil {
		log.Printf("render: preset %s -> %d card line(s)", p.ID, len(set.Cards))
		log.Close()
	}

	if renderStdout {
		fmt.Fprintln(cmd.OutOrStdout(), set.String())
		if renderVerify {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), cards.Verification(stack))
		}
		return nil
	}

	outDir := renderOut
	if outDir == "" {
		outDir = cfg.OutputDir()
	}
	store := artifact.NewStore(outDir)
	meta := artifact.Metadata{
		Title: fmt.Sprintf("preset %s", p.ID),
		Notes: map[string]string{
			"mode":  p.Mode,
			"paths": fmt.Sprintf("%d", len(set.Paths)),
		},
	}
	saves := []struct {
		ref  artifact.Ref
		body string
	}{
		{artifact.Cards, set.String()},
		{artifact.Summary, summaryText(stack, set)},
	}
	if renderVerify {
		saves = append(saves, struct {
			ref  artifact.Ref
			body string
		}{artifact.VerifyDeck, cards.Verification(stack)})
	}
	for _, s := range saves {
		if err := store.Write(s.ref, []byte(s.body), meta); err != nil {
			return err
		}
		result, err := store.Check(s.ref)
		if err != nil {
			return fmt.Errorf("render: check %s: %w", s.ref.ID, err)
		}
		if result.State != artifact.StateReady {
			return fmt.Errorf("render: artifact %s is %s after save", s.ref.ID, result.State)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", store.Path(s.ref))
	}
	return nil
}

// applyOverrides folds --set key=value pairs into the preset. extras
// appends, everything else replaces. The result is re-normalized so an
// override like mode=TALLY behaves the same as the YAML form.
func applyOverrides(p preset.Preset, sets []string) (preset.Preset, error) {
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return p, fmt.Errorf("render: --set %q is not key=value", kv)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "mode":
			p.Mode = value
		case "particle":
			p.Particle = value
		case "tally":
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("render: --set tally=%s: not a whole number", value)
			}
			p.Tally = n
		case "distribution":
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("render: --set distribution=%s: not a whole number", value)
			}
			p.Distribution = n
		case "volume":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return p, fmt.Errorf("render: --set volume=%s: not a number", value)
			}
			p.Volume = f
		case "extras":
			p.Extras = append(p.Extras, value)
		default:
			return p, fmt.Errorf("render: unknown --set key %q (mode, particle, tally, distribution, volume, extras)", key)
		}
	}
	return p.Normalized(), nil
}

func lintFailure(source string, errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s: %s", source, strings.Join(msgs, "; "))
}

// summaryText matches the summary artifact the TUI writes, so rendered
// presets, scripted runs, and saved interviews all read the same.
func summaryText(stack geometry.Stack, set cards.CardSet) string {
	var b strings.Builder
	b.WriteString(render.Summary(stack))
	b.WriteString("\n")
	writeSection := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n" + title + ":\n")
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
	}
	var warnings []string
	for _, w := range wizard.Ambiguities(stack) {
		warnings = append(warnings, w.Text)
	}
	writeSection("Warnings", warnings)
	writeSection("Advice", set.Advice)
	writeSection("Notes", set.Notes)
	return b.String()
}
