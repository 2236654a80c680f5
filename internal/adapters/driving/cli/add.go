package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title] [file]",
	Short: "Add a document to your collection",
	Long: `Stores the document's full text, generates a summary, and
embeds the summary for similarity search. Pass "-" as the file to read
from standard input.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}
	if err := requireAI(); err != nil {
		return err
	}

	title, path := args[0], args[1]

	var text []byte
	var err error
	if path == "-" {
		text, err = io.ReadAll(cmd.InOrStdin())
	} else {
		text, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	id, err := assistantService.AddDocument(context.Background(), flagUser, title, string(text))
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Added document %s (%s)\n", id, title)
	return nil
}
