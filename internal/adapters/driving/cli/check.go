package cli

import (
	"github.com/spf13/cobra"

	"github.com/docent-dev/docent/internal/adapters/driven/ai"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the model service is reachable",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if err := requireAI(); err != nil {
		return err
	}

	if err := ai.ValidateConnection(aiService); err != nil {
		return err
	}

	cmd.Printf("OK: %s is reachable\n", aiService.ModelName())
	return nil
}
