package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the answer cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cached answers",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached answers",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if answerCache == nil {
		return errors.New("answer cache not configured")
	}

	stats, err := answerCache.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	cmd.Printf("Entries:  %d\n", stats.TotalEntries)
	cmd.Printf("Expired:  %d\n", stats.ExpiredEntries)
	cmd.Printf("Size:     %d bytes\n", stats.TotalBytes)
	return nil
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	if answerCache == nil {
		return errors.New("answer cache not configured")
	}

	removed, err := answerCache.DeleteExpired(context.Background())
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	cmd.Printf("Removed %d expired entries.\n", removed)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if answerCache == nil {
		return errors.New("answer cache not configured")
	}

	removed, err := answerCache.Clear(context.Background())
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	cmd.Printf("Removed %d entries.\n", removed)
	return nil
}
