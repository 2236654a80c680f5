package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against your documents",
	Long: `Routes the question to a search strategy, retrieves the most
similar documents, and generates an answer grounded in them. Repeated
questions over an unchanged document set are served from the cache.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}
	if err := requireAI(); err != nil {
		return err
	}

	answer, err := assistantService.Ask(context.Background(), flagUser, args[0])
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	if answer.DocumentsFound == 0 {
		cmd.Println("No relevant documents found. Add some with 'docent add'.")
		return nil
	}

	cmd.Println(answer.Text)

	if flagVerbose {
		cmd.Println()
		cmd.Printf("Query type: %s, strategy: %s (top %d)\n",
			answer.Routing.Type, answer.Routing.Strategy, answer.Routing.TopK)
		cmd.Printf("Documents: %d found, %d in context\n",
			answer.DocumentsFound, answer.DocumentsUsed)
		if answer.Cached {
			cmd.Println("Served from cache.")
		}
	}
	return nil
}
