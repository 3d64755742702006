package extractions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Clauses and metadata are
// stored as jsonb; the single-statement insert keeps record creation
// all-or-nothing.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new extraction.
func (r *PGRepo) Create(ctx context.Context, ext Extraction) error {
	const query = `
INSERT INTO extractions (document_id, filename, clauses, metadata, created_at)
VALUES ($1, $2, $3, $4, $5)`

	clauses, err := json.Marshal(ext.Clauses)
	if err != nil {
		return fmt.Errorf("marshal clauses: %w", err)
	}
	metadata, err := json.Marshal(ext.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		ext.DocumentID,
		ext.Filename,
		clauses,
		metadata,
		ext.CreatedAt,
	)
	return err
}

// GetByDocumentID fetches one extraction by its document identifier.
func (r *PGRepo) GetByDocumentID(ctx context.Context, documentID string) (Extraction, error) {
	const query = `
SELECT document_id, filename, clauses, metadata, created_at
FROM extractions
WHERE document_id = $1`

	row := r.DB.QueryRowContext(ctx, query, documentID)
	ext, err := scanExtraction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrNotFound
		}
		return Extraction{}, err
	}
	return ext, nil
}

// List returns extractions ordered newest-first, honoring limit/offset.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Extraction, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT document_id, filename, clauses, metadata, created_at
FROM extractions
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		ext, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ext)
	}
	return out, rows.Err()
}

// Count returns the total number of stored extractions.
func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM extractions`).Scan(&total)
	return total, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row rowScanner) (Extraction, error) {
	var ext Extraction
	var clauses []byte
	var metadata []byte
	if err := row.Scan(&ext.DocumentID, &ext.Filename, &clauses, &metadata, &ext.CreatedAt); err != nil {
		return Extraction{}, err
	}
	if err := json.Unmarshal(clauses, &ext.Clauses); err != nil {
		return Extraction{}, fmt.Errorf("unmarshal clauses: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &ext.Metadata); err != nil {
			return Extraction{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return ext, nil
}

var _ Repo = (*PGRepo)(nil)
