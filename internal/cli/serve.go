package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/covalentlabs/webquill/internal/api/handlers"
	"github.com/covalentlabs/webquill/internal/config"
	"github.com/covalentlabs/webquill/internal/jobs"
	"github.com/covalentlabs/webquill/internal/server"
	"github.com/covalentlabs/webquill/internal/service"
	"github.com/covalentlabs/webquill/internal/storage"
	"github.com/covalentlabs/webquill/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the webquill retrieval API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

// listenPort returns the port to bind. An explicitly passed --port flag
// wins over the configured port, even when it equals the flag default.
func listenPort(cmd *cobra.Command, configured string) string {
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetString("port")
		return port
	}
	return configured
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	cfg.Port = listenPort(cmd, cfg.Port)

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	store, closeStore, err := openStore(ctx, cfg, !noMigrate)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer closeStore()
	log.Printf("vector store ready (collection: %s)", cfg.CollectionName)

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	// Fail fast if the collection was indexed with a different model;
	// serving queries against it would return meaningless rankings.
	if err := store.EnsureCollection(ctx, embedder.Model(), embedder.Dimensions()); err != nil {
		return err
	}

	pipeline := newPipeline(cfg, embedder, store)

	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready, archiving crawl snapshots", cfg.S3Bucket)
		pipeline.WithArchiver(s3Client)
	}

	querySvc := service.NewQueryService(embedder, store)

	var reindexWorker *jobs.Worker
	if cfg.ReindexInterval > 0 && cfg.TargetWebsite != "" {
		task := jobs.NewReindexTask(pipeline, cfg.TargetWebsite, cfg.MaxPages, crawlDelay(cfg))
		reindexWorker = jobs.NewWorker(task, cfg.ReindexInterval)
		go reindexWorker.Start(ctx)
		log.Printf("reindex worker started (every %v)", cfg.ReindexInterval)
	}

	router := server.NewRouter(server.RouterConfig{
		QueryHandler: handlers.NewQueryHandler(querySvc),
		IndexHandler: handlers.NewIndexHandler(pipeline, querySvc, handlers.IndexDefaults{
			WebsiteURL: cfg.TargetWebsite,
			MaxPages:   cfg.MaxPages,
			Delay:      crawlDelay(cfg),
		}),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if reindexWorker != nil {
		reindexWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
