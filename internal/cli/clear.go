package cli

import (
	"context"
	"fmt"

	"github.com/covalentlabs/webquill/internal/config"
	"github.com/spf13/cobra"
)

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every indexed document from the collection",
		RunE:  runClear,
	}
}

func runClear(cmd *cobra.Command, args []string) error {
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

	if err := store.Clear(ctx); err != nil {
		return err
	}

	fmt.Println("collection cleared")
	return nil
}
