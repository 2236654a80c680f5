package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var routingCmd = &cobra.Command{
	Use:   "routing [query]",
	Short: "Explain how a query would be routed",
	Long: `Classifies the query and prints the search strategy it maps
to, without running a search or calling the model.`,
	Args: cobra.ExactArgs(1),
	RunE: runRouting,
}

func init() {
	rootCmd.AddCommand(routingCmd)
}

func runRouting(cmd *cobra.Command, args []string) error {
	if queryRouter == nil {
		return errors.New("router not configured")
	}

	cmd.Println(queryRouter.Explain(args[0]))
	return nil
}
