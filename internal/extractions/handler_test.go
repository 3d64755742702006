package extractions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/amargenjac/contract-clause-extractor/internal/extract"
	"github.com/amargenjac/contract-clause-extractor/internal/llm"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Error.Code, body.Error.Message
}

func TestExtractSuccess(t *testing.T) {
	page := 1
	svc, _ := newTestService(
		&stubTextExtractor{result: extract.Result{Text: "contract text", PageCount: 2, HasText: true}},
		&stubClauseSource{clauses: []Clause{
			{ClauseType: "Termination", Content: "Either party may terminate.", PageNumber: &page},
		}},
	)
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "file", "agreement.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract?provider=openai", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		DocumentID string   `json:"document_id"`
		Filename   string   `json:"filename"`
		Clauses    []Clause `json:"clauses"`
		Metadata   map[string]any
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DocumentID == "" {
		t.Fatalf("expected document_id in response")
	}
	if resp.Filename != "agreement.pdf" {
		t.Fatalf("unexpected filename %q", resp.Filename)
	}
	if len(resp.Clauses) != 1 || resp.Clauses[0].ClauseType != "Termination" {
		t.Fatalf("unexpected clauses %+v", resp.Clauses)
	}
}

func TestExtractRejectsUnknownProvider(t *testing.T) {
	svc, _ := newTestService(&stubTextExtractor{}, &stubClauseSource{})
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "file", "agreement.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract?provider=carrier-x", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	code, msg := decodeError(t, rec)
	if code != "validation_error" {
		t.Fatalf("unexpected error code %q", code)
	}
	if msg != "Provider must be 'openai' or 'gemini'" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestExtractRejectsNonPDFFilename(t *testing.T) {
	svc, _ := newTestService(&stubTextExtractor{}, &stubClauseSource{})
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "file", "agreement.docx", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code, _ := decodeError(t, rec); code != "validation_error" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestExtractRejectsOversizedUpload(t *testing.T) {
	svc, _ := newTestService(&stubTextExtractor{}, &stubClauseSource{})
	router := newTestRouter(svc)

	oversized := bytes.Repeat([]byte("a"), maxUploadSize+1)
	body, contentType := multipartUpload(t, "file", "huge.pdf", oversized)
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	code, msg := decodeError(t, rec)
	if code != "validation_error" {
		t.Fatalf("unexpected error code %q", code)
	}
	if msg != "File too large" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestExtractRejectsTraversalFilename(t *testing.T) {
	svc, _ := newTestService(
		&stubTextExtractor{result: extract.Result{Text: "text", PageCount: 1, HasText: true}},
		&stubClauseSource{clauses: []Clause{}},
	)
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "file", "../escape.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code, _ := decodeError(t, rec); code != "validation_error" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestExtractRequiresFile(t *testing.T) {
	svc, _ := newTestService(&stubTextExtractor{}, &stubClauseSource{})
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/extract", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExtractMapsDocumentProcessingError(t *testing.T) {
	svc, _ := newTestService(
		&stubTextExtractor{err: fmt.Errorf("%w: invalid xref table", extract.ErrDocumentProcessing)},
		&stubClauseSource{},
	)
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "file", "broken.pdf", []byte("junk"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code, _ := decodeError(t, rec); code != "document_error" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestExtractMapsProviderError(t *testing.T) {
	svc, _ := newTestService(
		&stubTextExtractor{result: extract.Result{Text: "text", PageCount: 1, HasText: true}},
		&stubClauseSource{err: fmt.Errorf("openai: %w", llm.ErrProvider)},
	)
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, "file", "agreement.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if code, _ := decodeError(t, rec); code != "provider_error" {
		t.Fatalf("unexpected error code %q", code)
	}
}

func TestGetExtraction(t *testing.T) {
	svc, _ := newTestService(
		&stubTextExtractor{result: extract.Result{Text: "text", PageCount: 1, HasText: true}},
		&stubClauseSource{clauses: []Clause{}},
	)
	router := newTestRouter(svc)

	ext, err := svc.ProcessContract(context.Background(), []byte("%PDF"), "a.pdf", llm.ProviderOpenAI)
	if err != nil {
		t.Fatalf("ProcessContract: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/extractions/"+ext.DocumentID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DocumentID != ext.DocumentID {
		t.Fatalf("expected document_id %q, got %q", ext.DocumentID, resp.DocumentID)
	}
}

func TestGetExtractionNotFound(t *testing.T) {
	svc, _ := newTestService(&stubTextExtractor{}, &stubClauseSource{})
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/extractions/does-not-exist", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	code, msg := decodeError(t, rec)
	if code != "not_found" {
		t.Fatalf("unexpected error code %q", code)
	}
	if msg != "Document not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestListExtractionsPagination(t *testing.T) {
	svc, _ := newTestService(
		&stubTextExtractor{result: extract.Result{Text: "text", PageCount: 1, HasText: true}},
		&stubClauseSource{clauses: []Clause{}},
	)
	router := newTestRouter(svc)

	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("contract-%d.pdf", i)
		if _, err := svc.ProcessContract(context.Background(), []byte("%PDF"), name, llm.ProviderOpenAI); err != nil {
			t.Fatalf("ProcessContract %d: %v", i, err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/extractions?page=2&page_size=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Total       int              `json:"total"`
		Page        int              `json:"page"`
		PageSize    int              `json:"page_size"`
		Extractions []map[string]any `json:"extractions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 3 || resp.Page != 2 || resp.PageSize != 2 {
		t.Fatalf("unexpected pagination %+v", resp)
	}
	if len(resp.Extractions) != 1 {
		t.Fatalf("expected 1 item on page 2, got %d", len(resp.Extractions))
	}
}

func TestListExtractionsRejectsBadPageSize(t *testing.T) {
	svc, _ := newTestService(&stubTextExtractor{}, &stubClauseSource{})
	router := newTestRouter(svc)

	for _, q := range []string{"page=0", "page=abc", "page_size=0", "page_size=101"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/extractions?"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestListExtractionsEmpty(t *testing.T) {
	svc, _ := newTestService(&stubTextExtractor{}, &stubClauseSource{})
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/extractions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Total       int              `json:"total"`
		Extractions []map[string]any `json:"extractions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("expected total 0, got %d", resp.Total)
	}
	if resp.Extractions == nil {
		t.Fatalf("expected extractions array, got null")
	}
}
