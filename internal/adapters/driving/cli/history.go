package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docent-dev/docent/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your recent conversation",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the conversation so far",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if conversations == nil {
		return errors.New("conversation store not configured")
	}

	turns, err := conversations.History(context.Background(), flagUser, 0)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(turns) == 0 {
		cmd.Println("No conversation yet.")
		return nil
	}

	for _, turn := range turns {
		prefix := "You"
		if turn.Role == domain.RoleAssistant {
			prefix = "Docent"
		}
		cmd.Printf("%s: %s\n", prefix, turn.Content)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	cleared, stats, err := assistantService.ClearHistory(context.Background(), flagUser)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	if !cleared {
		cmd.Println("Nothing to clear.")
		return nil
	}
	cmd.Printf("Cleared %d turns (%d questions).\n", stats.TotalTurns, stats.UserTurns)
	return nil
}
