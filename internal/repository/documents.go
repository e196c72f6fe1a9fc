package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/covalentlabs/webquill/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

const (
	metaKeyModel      = "embedding_model"
	metaKeyDimensions = "embedding_dimensions"
)

// DocumentRepository persists chunk records in Postgres with pgvector
// similarity search. It satisfies the same contract as the embedded
// SQLite store and is selected when DATABASE_URL is configured.
type DocumentRepository struct {
	pool       *pgxpool.Pool
	collection string
	dimensions int
}

func NewDocumentRepository(pool *pgxpool.Pool, collection string) *DocumentRepository {
	return &DocumentRepository{pool: pool, collection: collection}
}

// EnsureCollection records the embedding model identity on first use and
// verifies it afterwards. A non-empty collection indexed under a
// different model is rejected.
func (r *DocumentRepository) EnsureCollection(ctx context.Context, modelID string, dimensions int) error {
	storedModel, err := r.metaValue(ctx, metaKeyModel)
	if err != nil {
		return err
	}
	storedDims, err := r.metaValue(ctx, metaKeyDimensions)
	if err != nil {
		return err
	}

	if storedModel == "" {
		return r.writeMeta(ctx, modelID, dimensions)
	}

	if storedModel != modelID || storedDims != strconv.Itoa(dimensions) {
		stats, err := r.Stats(ctx)
		if err != nil {
			return err
		}
		if stats.TotalDocuments == 0 {
			if err := r.writeMeta(ctx, modelID, dimensions); err != nil {
				return err
			}
		} else {
			return domain.NewDomainErrorWithCause(domain.ErrCodeConfigurationMismatch,
				fmt.Sprintf("collection indexed with model %q (%s dims), current model is %q (%d dims)",
					storedModel, storedDims, modelID, dimensions),
				domain.ErrModelMismatch)
		}
	}

	r.dimensions = dimensions
	return nil
}

func (r *DocumentRepository) writeMeta(ctx context.Context, modelID string, dimensions int) error {
	for key, value := range map[string]string{
		metaKeyModel:      modelID,
		metaKeyDimensions: strconv.Itoa(dimensions),
	} {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO collection_meta (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			key, value)
		if err != nil {
			return err
		}
	}
	r.dimensions = dimensions
	return nil
}

func (r *DocumentRepository) metaValue(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM collection_meta WHERE key = $1`, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// AddDocuments upserts records by id inside a single transaction.
func (r *DocumentRepository) AddDocuments(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range records {
		record := &records[i]
		if err := domain.ValidateRecord(record, r.dimensions); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeInvalidArgument, "invalid record", err)
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO documents (id, content, source_url, embedding)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE SET
				content = EXCLUDED.content,
				source_url = EXCLUDED.source_url,
				embedding = EXCLUDED.embedding`,
			record.ID, record.Content, record.SourceURL, pgvector.NewVector(record.Embedding))
		if err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", record.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// Search returns at most topK records ranked by ascending cosine
// distance from the query embedding.
func (r *DocumentRepository) Search(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT content, source_url, embedding <=> $1 AS distance
		 FROM documents
		 ORDER BY distance ASC, id ASC
		 LIMIT $2`,
		pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SearchResult, 0, topK)
	for rows.Next() {
		var result domain.SearchResult
		if err := rows.Scan(&result.Content, &result.SourceURL, &result.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		result.Rank = len(results) + 1
		results = append(results, result)
	}
	return results, rows.Err()
}

// Stats reports the collection name and document count.
func (r *DocumentRepository) Stats(ctx context.Context) (domain.CollectionStats, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return domain.CollectionStats{}, fmt.Errorf("failed to count documents: %w", err)
	}
	return domain.CollectionStats{
		CollectionName: r.collection,
		TotalDocuments: count,
	}, nil
}

// Clear removes every record but keeps the collection metadata.
func (r *DocumentRepository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	return nil
}
