package cli

import (
	"context"
	"fmt"

	"github.com/covalentlabs/webquill/internal/config"
	"github.com/spf13/cobra"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show vector collection statistics",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer closeStore()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("collection: %s\n", stats.CollectionName)
	fmt.Printf("documents:  %d\n", stats.TotalDocuments)
	return nil
}
