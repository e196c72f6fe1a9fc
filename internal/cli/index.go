package cli

import (
	"context"
	"fmt"

	"github.com/covalentlabs/webquill/internal/config"
	"github.com/spf13/cobra"
)

// IndexCmd returns the index command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [url]",
		Short: "Crawl a website and index it into the vector collection",
		Long:  "Run the crawl, clean, chunk, embed, store pipeline once and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIndex,
	}

	cmd.Flags().Int("max-pages", 0, "Maximum number of pages to crawl (defaults to WEBQUILL_MAX_PAGES)")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	websiteURL := cfg.TargetWebsite
	if len(args) > 0 {
		websiteURL = args[0]
	}
	if websiteURL == "" {
		return fmt.Errorf("no website to index: pass a url or set WEBQUILL_TARGET_WEBSITE")
	}

	maxPages, _ := cmd.Flags().GetInt("max-pages")
	if maxPages <= 0 {
		maxPages = cfg.MaxPages
	}

	store, closeStore, err := openStore(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer closeStore()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	pipeline := newPipeline(cfg, embedder, store)
	result, err := pipeline.Run(ctx, websiteURL, maxPages, crawlDelay(cfg))
	if err != nil {
		return err
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("indexed %s: %d pages crawled, %d chunks stored\n", websiteURL, result.PagesCrawled, result.ChunksCreated)
	fmt.Printf("collection %s now holds %d documents\n", stats.CollectionName, stats.TotalDocuments)
	return nil
}
