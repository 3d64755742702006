package extractions

import "context"

// Repo defines persistence operations for extractions.
type Repo interface {
	Create(ctx context.Context, ext Extraction) error
	GetByDocumentID(ctx context.Context, documentID string) (Extraction, error)
	List(ctx context.Context, limit, offset int) ([]Extraction, error)
	Count(ctx context.Context) (int, error)
}
