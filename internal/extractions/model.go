package extractions

import "time"

// Clause is a single classified span of contract text. PageNumber is
// nil when the provider response does not place the clause on a page.
type Clause struct {
	ClauseType string `json:"clause_type"`
	Content    string `json:"content"`
	PageNumber *int   `json:"page_number"`
}

// Extraction is one persisted clause-extraction result. Records are
// created once and never updated.
type Extraction struct {
	DocumentID string
	Filename   string
	Clauses    []Clause
	Metadata   map[string]any
	CreatedAt  time.Time
}

// ListResult is one page of extractions plus the unfiltered total.
type ListResult struct {
	Total    int
	Page     int
	PageSize int
	Items    []Extraction
}
