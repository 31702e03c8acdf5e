package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/records"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// DatabaseFile is the name of the database inside the store directory.
const DatabaseFile = "vectors.db"

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store bound to one collection.
type Store struct {
	db         *sql.DB
	path       string
	collection string
	dimensions int
}

// NewStore opens or creates dataDir/vectors.db and binds the collection.
func NewStore(dataDir, collection string, dimensions int) (*Store, error) {
	if dataDir == "" || collection == "" {
		return nil, fmt.Errorf("%w: sqlite store needs a path and a collection name", domain.ErrInvalidArgument)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidArgument, dimensions)
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", domain.ErrStoreUnavailable, err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		collection: collection,
		dimensions: dimensions,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.bindCollection(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_vectors.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// bindCollection creates the collection row or checks its vector size.
func (s *Store) bindCollection(ctx context.Context) error {
	var existing int
	err := s.db.QueryRowContext(ctx,
		"SELECT dimensions FROM collections WHERE name = ?", s.collection).Scan(&existing)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO collections (name, dimensions) VALUES (?, ?)", s.collection, s.dimensions)
		if err != nil {
			return fmt.Errorf("%w: creating collection: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: reading collection: %v", domain.ErrStoreUnavailable, err)
	case existing != s.dimensions:
		return fmt.Errorf("%w: collection %s holds %d-dimensional vectors, embedding model produces %d",
			domain.ErrInvalidArgument, s.collection, existing, s.dimensions)
	default:
		return nil
	}
}

// Upsert inserts or replaces the batch in one transaction.
func (s *Store) Upsert(
	ctx context.Context,
	ids []string,
	vectors [][]float32,
	texts []string,
	metadatas []domain.RecordMetadata,
) error {
	if err := records.Validate(ids, vectors, texts, metadatas, s.dimensions); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, embedding, document, filename, chunk_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, id) DO UPDATE SET
			embedding = excluded.embedding,
			document = excluded.document,
			filename = excluded.filename,
			chunk_id = excluded.chunk_id,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing upsert: %v", domain.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, s.collection, id, float32SliceToBytes(vectors[i]),
			texts[i], metadatas[i].Filename, metadatas[i].ChunkID); err != nil {
			return fmt.Errorf("%w: upserting %s: %v", domain.ErrStoreUnavailable, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing upsert: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Query scans the collection and returns the k most similar records.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]domain.QueryHit, error) {
	if err := records.CheckQuery(vector, k, s.dimensions); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, embedding, document, filename, chunk_id
		FROM records WHERE collection = ?
	`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: querying records: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var hits []domain.QueryHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			hit  domain.QueryHit
			blob []byte
		)
		if err := rows.Scan(&hit.ID, &blob, &hit.Text, &hit.Metadata.Filename, &hit.Metadata.ChunkID); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		hit.Score = records.Cosine(vector, bytesToFloat32Slice(blob))
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	if hits == nil {
		return []domain.QueryHit{}, nil
	}
	return records.TopK(hits, k), nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE collection = ?", s.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: counting records: %v", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// Dimensions returns the vector size the store accepts.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// Name returns the collection name.
func (s *Store) Name() string {
	return s.collection
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// float32SliceToBytes converts []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
