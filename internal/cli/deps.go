package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/covalentlabs/webquill/internal/config"
	"github.com/covalentlabs/webquill/internal/crawler"
	"github.com/covalentlabs/webquill/internal/database"
	"github.com/covalentlabs/webquill/internal/openai"
	"github.com/covalentlabs/webquill/internal/repository"
	"github.com/covalentlabs/webquill/internal/service"
	"github.com/covalentlabs/webquill/internal/textproc"
	"github.com/covalentlabs/webquill/internal/vectorstore"
)

// openStore picks the vector store backend: Postgres/pgvector when
// DATABASE_URL is configured, otherwise the embedded SQLite store.
// The returned cleanup function releases the backing connection.
func openStore(ctx context.Context, cfg *config.Config, migrate bool) (service.VectorStore, func(), error) {
	if cfg.HasPostgres() {
		if migrate {
			if err := database.Migrate(cfg.DatabaseURL, "file://migrations"); err != nil {
				return nil, nil, err
			}
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewDocumentRepository(pool, cfg.CollectionName), pool.Close, nil
	}

	store, err := vectorstore.NewSQLiteStore(cfg.VectorDBPath, cfg.CollectionName)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func newEmbedder(cfg *config.Config) (*openai.Client, error) {
	if !cfg.HasOpenAI() {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for embedding operations")
	}
	return openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	}), nil
}

func newPipeline(cfg *config.Config, embedder *openai.Client, store service.VectorStore) *service.PipelineService {
	chunkCfg := textproc.DefaultChunkConfig()
	chunkCfg.Size = cfg.ChunkSize
	chunkCfg.Overlap = cfg.ChunkOverlap

	return service.NewPipelineService(crawler.New(crawler.Options{}), embedder, store, chunkCfg)
}

// crawlDelay converts the configured per-page delay in seconds.
func crawlDelay(cfg *config.Config) time.Duration {
	return time.Duration(cfg.CrawlDelay * float64(time.Second))
}
