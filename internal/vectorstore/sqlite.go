package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/covalentlabs/webquill/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const (
	metaKeyModel      = "embedding_model"
	metaKeyDimensions = "embedding_dimensions"
)

// SQLiteStore is an embedded vector collection backed by a single SQLite
// file under a configurable directory. Similarity search is brute-force
// cosine distance over all stored embeddings, which is plenty for the
// collection sizes a single-site crawl produces.
type SQLiteStore struct {
	db         *sql.DB
	path       string
	collection string
	dimensions int
}

// NewSQLiteStore opens (or creates) the collection database at
// <dir>/<collection>.db.
func NewSQLiteStore(dir, collection string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vector store directory: %w", err)
	}

	path := filepath.Join(dir, collection+".db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	store := &SQLiteStore{db: db, path: path, collection: collection}
	if err := store.setupTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up vector store tables: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the location of the collection database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) setupTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			source_url TEXT NOT NULL,
			embedding BLOB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS collection_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// EnsureCollection records the embedding model identity on first use and
// verifies it on every subsequent one. A collection indexed under one
// model refuses writes and reads under another, unless it is empty.
func (s *SQLiteStore) EnsureCollection(ctx context.Context, modelID string, dimensions int) error {
	storedModel, err := s.metaValue(ctx, metaKeyModel)
	if err != nil {
		return err
	}
	storedDims, err := s.metaValue(ctx, metaKeyDimensions)
	if err != nil {
		return err
	}

	if storedModel == "" {
		return s.writeMeta(ctx, modelID, dimensions)
	}

	if storedModel != modelID || storedDims != strconv.Itoa(dimensions) {
		stats, err := s.Stats(ctx)
		if err != nil {
			return err
		}
		// An empty collection can adopt a new model.
		if stats.TotalDocuments == 0 {
			if err := s.writeMeta(ctx, modelID, dimensions); err != nil {
				return err
			}
		} else {
			return domain.NewDomainErrorWithCause(domain.ErrCodeConfigurationMismatch,
				fmt.Sprintf("collection indexed with model %q (%s dims), current model is %q (%d dims)",
					storedModel, storedDims, modelID, dimensions),
				domain.ErrModelMismatch)
		}
	}

	s.dimensions = dimensions
	return nil
}

func (s *SQLiteStore) writeMeta(ctx context.Context, modelID string, dimensions int) error {
	for key, value := range map[string]string{
		metaKeyModel:      modelID,
		metaKeyDimensions: strconv.Itoa(dimensions),
	} {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO collection_meta (key, value) VALUES (?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
			key, value)
		if err != nil {
			return err
		}
	}
	s.dimensions = dimensions
	return nil
}

func (s *SQLiteStore) metaValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM collection_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// AddDocuments upserts records by id: re-adding an existing id replaces
// its content and embedding.
func (s *SQLiteStore) AddDocuments(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, content, source_url, embedding) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			content = excluded.content,
			source_url = excluded.source_url,
			embedding = excluded.embedding`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		record := &records[i]
		if err := domain.ValidateRecord(record, s.dimensions); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeInvalidArgument, "invalid record", err)
		}
		if _, err := stmt.ExecContext(ctx, record.ID, record.Content, record.SourceURL, encodeEmbedding(record.Embedding)); err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Search returns at most topK records ranked by ascending cosine
// distance from the query embedding, or fewer if the collection holds
// fewer records.
func (s *SQLiteStore) Search(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content, source_url, embedding FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	type scored struct {
		id       string
		content  string
		source   string
		distance float64
	}

	var candidates []scored
	for rows.Next() {
		var item scored
		var blob []byte
		if err := rows.Scan(&item.id, &item.content, &item.source, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		item.distance = CosineDistance(embedding, decodeEmbedding(blob))
		candidates = append(candidates, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].id < candidates[j].id
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		results = append(results, domain.SearchResult{
			Rank:      i + 1,
			Content:   candidates[i].content,
			SourceURL: candidates[i].source,
			Distance:  candidates[i].distance,
		})
	}
	return results, nil
}

// Stats reports the collection name and document count.
func (s *SQLiteStore) Stats(ctx context.Context) (domain.CollectionStats, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return domain.CollectionStats{}, fmt.Errorf("failed to count documents: %w", err)
	}
	return domain.CollectionStats{
		CollectionName: s.collection,
		TotalDocuments: count,
	}, nil
}

// Clear removes every record but keeps the collection and its recorded
// model configuration.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	return nil
}

// encodeEmbedding packs a vector into a little-endian float32 blob.
func encodeEmbedding(embedding []float32) []byte {
	buf := make([]byte, 4*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(blob []byte) []float32 {
	embedding := make([]float32, len(blob)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return embedding
}
