package extractions

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amargenjac/contract-clause-extractor/internal/extract"
	"github.com/amargenjac/contract-clause-extractor/internal/llm"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/metrics"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/storage/object"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/telemetry"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/util"
)

// TextExtractor converts raw PDF bytes into plain text plus metadata.
type TextExtractor interface {
	Extract(data []byte) (extract.Result, error)
}

// ClauseSource turns document text into clauses via an LLM provider.
type ClauseSource interface {
	Extract(ctx context.Context, text string, provider llm.Provider) ([]Clause, error)
}

// Service ties text extraction, clause extraction, and persistence
// together for the extract / fetch / list use cases.
type Service struct {
	Repo    Repo
	Text    TextExtractor
	Clauses ClauseSource
	Archive object.Store // optional archival copy of processed contracts
}

// ProcessContract runs the full pipeline for one uploaded contract.
// Nothing is persisted unless both extraction stages succeed.
func (s *Service) ProcessContract(ctx context.Context, data []byte, filename string, provider llm.Provider) (Extraction, error) {
	start := time.Now()
	metrics.IncExtractionStarted()

	safeName, err := util.SanitizeFileName(filename)
	if err != nil {
		metrics.IncExtractionFailed()
		return Extraction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result, err := s.Text.Extract(data)
	if err != nil {
		metrics.IncExtractionFailed()
		return Extraction{}, err
	}

	clauses, err := s.Clauses.Extract(ctx, result.Text, provider)
	if err != nil {
		metrics.IncExtractionFailed()
		return Extraction{}, err
	}
	if clauses == nil {
		clauses = []Clause{}
	}

	metadata := map[string]any{
		"page_count":           result.PageCount,
		"has_text":             result.HasText,
		"extraction_timestamp": time.Now().UTC().Format(time.RFC3339),
		"clause_count":         len(clauses),
		"provider":             string(provider),
	}
	if result.Info != nil {
		metadata["pdf_metadata"] = map[string]string{
			"title":   result.Info.Title,
			"author":  result.Info.Author,
			"subject": result.Info.Subject,
			"creator": result.Info.Creator,
		}
	}

	ext := Extraction{
		DocumentID: uuid.NewString(),
		Filename:   safeName,
		Clauses:    clauses,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, ext); err != nil {
		metrics.IncExtractionFailed()
		return Extraction{}, fmt.Errorf("persist extraction: %w", err)
	}

	s.archiveContract(ctx, ext.DocumentID, data)

	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(durationMs)

	telemetry.Info("extraction.complete", map[string]any{
		"document_id":  ext.DocumentID,
		"provider":     string(provider),
		"clause_count": len(clauses),
		"page_count":   result.PageCount,
		"duration_ms":  durationMs,
	})
	return ext, nil
}

// Get is a pure lookup; absence surfaces as ErrNotFound.
func (s *Service) Get(ctx context.Context, documentID string) (Extraction, error) {
	return s.Repo.GetByDocumentID(ctx, documentID)
}

// List returns the requested page of extractions ordered newest-first.
// Page numbering is 1-indexed and Total counts all records regardless
// of the pagination window.
func (s *Service) List(ctx context.Context, page, pageSize int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("count extractions: %w", err)
	}

	offset := (page - 1) * pageSize
	items, err := s.Repo.List(ctx, pageSize, offset)
	if err != nil {
		return ListResult{}, fmt.Errorf("list extractions: %w", err)
	}
	if items == nil {
		items = []Extraction{}
	}

	return ListResult{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    items,
	}, nil
}

// archiveContract keeps a copy of the original upload next to the
// extraction record. Best effort: a failed archive never fails the
// request that already committed its record.
func (s *Service) archiveContract(ctx context.Context, documentID string, data []byte) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("contracts/%s.pdf", documentID)
	if _, err := s.Archive.Save(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
		telemetry.Warn("extraction.archive_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}
}
