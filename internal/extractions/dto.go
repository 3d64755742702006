package extractions

import "time"

type extractionResponse struct {
	DocumentID string         `json:"document_id"`
	Filename   string         `json:"filename"`
	Clauses    []Clause       `json:"clauses"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"created_at"`
}

type listResponse struct {
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
	Extractions []extractionResponse `json:"extractions"`
}

func toResponse(ext Extraction) extractionResponse {
	clauses := ext.Clauses
	if clauses == nil {
		clauses = []Clause{}
	}
	return extractionResponse{
		DocumentID: ext.DocumentID,
		Filename:   ext.Filename,
		Clauses:    clauses,
		Metadata:   ext.Metadata,
		CreatedAt:  ext.CreatedAt,
	}
}

func toListResponse(res ListResult) listResponse {
	items := make([]extractionResponse, 0, len(res.Items))
	for _, ext := range res.Items {
		items = append(items, toResponse(ext))
	}
	return listResponse{
		Total:       res.Total,
		Page:        res.Page,
		PageSize:    res.PageSize,
		Extractions: items,
	}
}
