package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/covalentlabs/webquill/internal/config"
	"github.com/covalentlabs/webquill/internal/service"
	"github.com/spf13/cobra"
)

// AskCmd returns the ask command
func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Retrieve the chunks closest to a question",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().IntP("top-k", "k", service.DefaultTopK, "Number of results to return (1-10)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	if err := store.EnsureCollection(ctx, embedder.Model(), embedder.Dimensions()); err != nil {
		return err
	}

	topK, _ := cmd.Flags().GetInt("top-k")
	question := strings.Join(args, " ")

	querySvc := service.NewQueryService(embedder, store)
	results, err := querySvc.AnswerQuery(ctx, question, topK)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("no indexed documents matched")
		return nil
	}

	for _, result := range results {
		fmt.Printf("%d. %s (distance %.4f)\n", result.Rank, result.SourceURL, result.Distance)
		fmt.Printf("   %s\n", result.Content)
	}
	return nil
}
