package config

import (
	"fmt"
	"log"
	"time"

	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Crawler
	TargetWebsite string  `envconfig:"TARGET_WEBSITE"`
	MaxPages      int     `envconfig:"MAX_PAGES" default:"50"`
	CrawlDelay    float64 `envconfig:"CRAWL_DELAY" default:"1"`

	// Text processing
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"50"`

	// Embeddings
	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	// Vector store: DATABASE_URL selects the Postgres/pgvector backend,
	// otherwise an embedded SQLite collection is kept under VectorDBPath.
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	VectorDBPath   string `envconfig:"VECTOR_DB_PATH" default:"./data/vectors"`
	CollectionName string `envconfig:"COLLECTION_NAME" default:"rag_documents"`

	// Optional periodic re-crawl of TargetWebsite. Zero disables it.
	ReindexInterval time.Duration `envconfig:"REINDEX_INTERVAL" default:"0"`

	// Optional crawl snapshot archiving
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"webquill-snapshots"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("WEBQUILL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// Validate rejects parameter combinations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return domain.ErrInvalidChunkSize
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return domain.ErrOverlapTooLarge
	}
	if c.MaxPages <= 0 {
		return domain.NewDomainError(domain.ErrCodeInvalidConfiguration, "max pages must be positive")
	}
	if c.EmbeddingDimensions <= 0 {
		return domain.NewDomainError(domain.ErrCodeInvalidConfiguration, "embedding dimensions must be positive")
	}
	return nil
}

func (c *Config) HasPostgres() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
