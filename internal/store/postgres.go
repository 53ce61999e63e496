package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised by the unique index on
// (collection, doc->>'id').
const uniqueViolation = "23505"

// postgresStore keeps every collection in a single documents table. Rows are
// keyed by a server-generated storage UUID; logical lookups go through the
// in-document id field.
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Postgres-backed DocumentStore.
func NewPostgresStore(pool *pgxpool.Pool) DocumentStore {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `SELECT doc FROM documents WHERE collection=$1 ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *postgresStore) FindByID(ctx context.Context, collection, id string) (Document, error) {
	const query = `SELECT doc FROM documents WHERE collection=$1 AND doc->>'id'=$2`

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, collection, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *postgresStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	const query = `INSERT INTO documents (storage_id, collection, doc) VALUES ($1, $2, $3)`

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", collection, err)
	}

	storageID := uuid.NewString()
	if _, err := s.pool.Exec(ctx, query, storageID, collection, raw); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", ErrDuplicateID
		}
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return storageID, nil
}

func (s *postgresStore) Update(ctx context.Context, collection, id string, patch Document) (bool, error) {
	const query = `UPDATE documents SET doc = doc || $3::jsonb WHERE collection=$1 AND doc->>'id'=$2`

	raw, err := json.Marshal(patch)
	if err != nil {
		return false, fmt.Errorf("encode patch %s/%s: %w", collection, id, err)
	}

	cmd, err := s.pool.Exec(ctx, query, collection, id, raw)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, ErrDuplicateID
		}
		return false, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *postgresStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	const query = `DELETE FROM documents WHERE collection=$1 AND doc->>'id'=$2`

	cmd, err := s.pool.Exec(ctx, query, collection, id)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
