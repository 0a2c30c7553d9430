// internal/cli/root.go
//
// Command surface of the wizard. One file per command, all registered
// on rootCmd in their init functions. Running the bare binary inside a
// terminal launches the TUI; answers piped on stdin run the interview
// non-interactively; an outbound pipe with no piped answers prints
// usage, so scripts that probe the binary never hang on a hidden
// interview.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcnpath/internal/tui"
)

var (
	projectDir string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "mcnpath",
	Short: "Path expression wizard for nested MCNP geometries",
	Long: `mcnpath builds MCNP path expressions for tallies and source
definitions in nested repeated-structure geometries.

It interviews you about the containment stack (which cell sits in
which universe, which lattice element holds it) and emits the F, SD,
SDEF, SI, and SP cards with the bracket-and-angle path syntax MCNP
expects, plus a void-material verification deck to smoke-test the
result before a real run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWizard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", ".", "project directory holding .mcnpath")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mcnpath: %v\n", err)
		os.Exit(1)
	}
}

func tuiOptions() []tui.AppOption {
	var opts []tui.AppOption
	if noColor {
		opts = append(opts, tui.WithColor(false))
	}
	return opts
}
