package documents

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.POST("/documents/:id/questions", h.askQuestion)
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, CodeValidationError, "file is required", nil)
		return
	}
	notes := c.PostForm("notes")

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, CodeValidationError, "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Create(c.Request.Context(), fileHeader.Filename, notes, fileHeader.Header.Get("Content-Type"), file)
	if doc.ID != "" {
		c.Set("documentId", doc.ID)
		c.Set("statusTransition", fmt.Sprintf("%s -> %s", StatusUploaded, doc.Status))
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFileType):
			respond.Error(c, http.StatusBadRequest, CodeInvalidFileType, err.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, CodeValidationError, err.Error(), nil)
		case errors.Is(err, ErrExtractionFailed):
			respond.Error(c, http.StatusInternalServerError, CodeExtractionFailed, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, CodeInternalError, err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	limit := parseIntDefault(c.Query("limit"), 0)
	offset := parseIntDefault(c.Query("offset"), 0)

	result, err := h.Svc.List(c.Request.Context(), c.Query("type"), c.Query("q"), limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, CodeValidationError, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, CodeInternalError, err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toListResponse(result))
}

func (h *Handler) get(c *gin.Context) {
	doc, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, CodeNotFound, "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, CodeInternalError, err.Error(), nil)
		}
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusOK, toResponse(doc))
}

type askQuestionRequest struct {
	Question string `json:"question"`
}

func (h *Handler) askQuestion(c *gin.Context) {
	var req askQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, CodeValidationError, "invalid request body", nil)
		return
	}

	q, err := h.Svc.AskQuestion(c.Request.Context(), c.Param("id"), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, CodeNotFound, "document not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, CodeValidationError, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, CodeInternalError, err.Error(), nil)
		}
		return
	}

	c.Set("documentId", q.DocumentID)
	respond.JSON(c, http.StatusCreated, toQuestionResponse(q))
}

// parseIntDefault returns def for absent or unparseable values; explicit
// values pass through for the service to clamp.
func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
