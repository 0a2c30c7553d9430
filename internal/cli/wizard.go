package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mcnpath/internal/cards"
	"mcnpath/internal/config"
	"mcnpath/internal/logging"
	"mcnpath/internal/tui"
	"mcnpath/internal/wizard"
)

var (
	wizardAnswers string
	wizardVerify  bool
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive wizard",
	Long: `Starts the full-screen wizard: the containment interview, the
visual lattice element selector, and the card review screen. Generated
cards can be saved into .mcnpath/output from the review screen.

With --answers (or answers piped on stdin) the same interview runs
non-interactively: one answer per line, blank lines and # comments
skipped, the first answer choosing the mode (1 = tally cards,
2 = source definition, 3 = both). The cards print to stdout.`,
	Args: cobra.NoArgs,
	RunE: runWizard,
}

func init() {
	wizardCmd.Flags().StringVar(&wizardAnswers, "answers", "", "answer file for a non-interactive run")
	wizardCmd.Flags().BoolVar(&wizardVerify, "verify", false, "print the verification deck after the cards (non-interactive runs)")
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	if wizardAnswers != "" {
		f, err := os.Open(wizardAnswers)
		if err != nil {
			return fmt.Errorf("wizard: %w", err)
		}
		defer f.Close()
		return runScripted(cmd, f)
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return runScripted(cmd, os.Stdin)
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return cmd.Help()
	}
	return tui.Run(projectDir, tuiOptions()...)
}

// runScripted replays an answer file through the same builder and card
// flows the TUI drives, then prints what the review screen would show.
// Leftover answers are an error: they mean the file does not line up
// with the questions actually asked.
func runScripted(cmd *cobra.Command, r io.Reader) error {
	cfg, err := config.New(projectDir)
	if err != nil {
		return err
	}
	script, err := wizard.ScriptFromReader(r)
	if err != nil {
		return err
	}
	mode, err := scriptedMode(script)
	if err != nil {
		return err
	}
	flow, err := cards.DefaultRegistry().Resolve(mode, cards.Defaults{
		Tally:        cfg.Project.DefaultTally,
		Particle:     cfg.Project.DefaultParticle,
		Distribution: cfg.Project.DefaultDistribution,
	})
	if err != nil {
		return err
	}
	stack, _, err := wizard.NewBuilder(script, wizard.WithMaxDepth(cfg.MaxDepth())).Climb()
	if err != nil {
		return err
	}
	set, err := flow.Collect(script, stack)
	if err != nil {
		return err
	}
	if n := script.Remaining(); n > 0 {
		return fmt.Errorf("wizard: %d answer(s) left over after the interview", n)
	}

	if log, err := logging.New(projectDir); err == nil {
		log.Printf("wizard: scripted %s run -> %d card line(s)", mode, len(set.Cards))
		log.Close()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, set.String())
	if wizardVerify {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cards.Verification(stack))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, summaryText(stack, set))
	return nil
}

// scriptedMode consumes the first answer, mirroring the mode question
// the interactive wizard opens with.
func scriptedMode(script *wizard.Script) (string, error) {
	choice, err := script.AskInt("What would you like to create? (1 = tally cards, 2 = source definition, 3 = both)")
	if err != nil {
		return "", err
	}
	switch choice {
	case 1:
		return cards.FlowTally, nil
	case 2:
		return cards.FlowSource, nil
	case 3:
		return cards.FlowBoth, nil
	default:
		return "", fmt.Errorf("wizard: mode %d is not one of 1 (tally), 2 (source), or 3 (both)", choice)
	}
}
