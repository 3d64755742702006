package extractions

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amargenjac/contract-clause-extractor/internal/extract"
	"github.com/amargenjac/contract-clause-extractor/internal/llm"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/server/respond"
)

const (
	maxUploadSize   = 10 << 20 // 10MB
	defaultPageSize = 10
	maxPageSize     = 100
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.extract)
	rg.GET("/extractions/:document_id", h.get)
	rg.GET("/extractions", h.list)
}

func (h *Handler) extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "File too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Only PDF files are supported", nil)
		return
	}

	provider, err := llm.ParseProvider(c.DefaultQuery("provider", "openai"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Provider must be 'openai' or 'gemini'", nil)
		return
	}
	c.Set("provider", string(provider))

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	ext, err := h.Svc.ProcessContract(c.Request.Context(), data, fileHeader.Filename, provider)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		case errors.Is(err, extract.ErrDocumentProcessing):
			respond.Error(c, http.StatusBadRequest, "document_error", err.Error(), nil)
		case errors.Is(err, llm.ErrProvider):
			respond.Error(c, http.StatusInternalServerError, "provider_error", "Error processing document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error processing document", nil)
		}
		return
	}

	c.Set("documentId", ext.DocumentID)
	respond.Created(c, toResponse(ext))
}

func (h *Handler) get(c *gin.Context) {
	documentID := c.Param("document_id")

	ext, err := h.Svc.Get(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch extraction", nil)
		}
		return
	}

	respond.OK(c, toResponse(ext))
}

func (h *Handler) list(c *gin.Context) {
	page, ok := parsePositiveQuery(c, "page", 1)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "page must be a positive integer", nil)
		return
	}
	pageSize, ok := parsePositiveQuery(c, "page_size", defaultPageSize)
	if !ok || pageSize > maxPageSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "page_size must be between 1 and 100", nil)
		return
	}

	res, err := h.Svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list extractions", nil)
		return
	}

	respond.OK(c, toListResponse(res))
}

func parsePositiveQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return 0, false
	}
	return val, true
}
