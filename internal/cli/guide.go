package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mcnpath/internal/guide"
)

var guidePlain bool

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Print the MCNP path syntax reference",
	Long: `Prints the embedded reference for the bracket-and-angle path
syntax: grammar, worked examples, and the mistakes MCNP rejects with a
fatal error. Styled for the terminal; plain markdown when piped or
with --plain.`,
	Args: cobra.NoArgs,
	RunE: runGuide,
}

func init() {
	guideCmd.Flags().BoolVar(&guidePlain, "plain", false, "raw markdown without styling")
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if guidePlain || !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(out, guide.Plain())
		return nil
	}
	styled, err := guide.Render(80, !noColor)
	if err != nil {
		fmt.Fprintln(out, guide.Plain())
		return nil
	}
	fmt.Fprintln(out, styled)
	return nil
}
