package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mcnpath/internal/cards"
	"mcnpath/internal/config"
	"mcnpath/internal/logging"
	"mcnpath/internal/preset"
)

var verifyPreset string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Print the verification deck for a preset",
	Long: `Prints a void-material smoke-test deck for the preset's path:
an SDEF pinned to the path through an L distribution, NPS 50, and
PRINT 110 so the output tables show where particles actually start.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPreset, "preset", "", "preset id or YAML file path")
	verifyCmd.MarkFlagRequired("preset")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.New(projectDir)
	if err != nil {
		return err
	}
	file, err := preset.Find(cfg, verifyPreset)
	if err != nil {
		return err
	}
	stack, err := file.Preset.ToStack()
	if err != nil {
		return err
	}
	if log, err := logging.New(projectDir); err == nil {
		log.Printf("verify: preset %s", file.Preset.ID)
		log.Close()
	}
	fmt.Fprintln(cmd.OutOrStdout(), cards.Verification(stack))
	return nil
}
