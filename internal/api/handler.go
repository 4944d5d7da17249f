package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/takeru0219/repo-maintidx/internal/domain"
	apperrors "github.com/takeru0219/repo-maintidx/internal/errors"
	"github.com/takeru0219/repo-maintidx/internal/storage"
)

// Analyzer runs one analysis per call.
type Analyzer interface {
	Analyze(ctx context.Context, rawID string) (*domain.Report, error)
}

// Handler handles API requests
type Handler struct {
	analyzer Analyzer
	store    storage.Storage // nil disables report history
}

// NewHandler creates a new API handler
func NewHandler(analyzer Analyzer, store storage.Storage) *Handler {
	return &Handler{
		analyzer: analyzer,
		store:    store,
	}
}

// AnalyzeRepo runs an analysis and returns the report
// POST /api/v1/repos/:owner/:repo/analyze
func (h *Handler) AnalyzeRepo(c *gin.Context) {
	rawID := c.Param("owner") + "/" + c.Param("repo")

	report, err := h.analyzer.Analyze(c.Request.Context(), rawID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.store != nil {
		if err := h.store.SaveReport(c.Request.Context(), report); err != nil {
			// History is best-effort; the report itself is still valid.
			report.Warnings = append(report.Warnings, "failed to persist report to history")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": report,
	})
}

// ListReports returns recent reports for a repository
// GET /api/v1/repos/:owner/:repo/reports
func (h *Handler) ListReports(c *gin.Context) {
	if h.store == nil {
		respondError(c, apperrors.NewBadRequestError("report history is disabled"))
		return
	}

	repository := c.Param("owner") + "/" + c.Param("repo")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, err := h.store.ListReports(c.Request.Context(), repository, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reports,
	})
}

// GetReport returns one stored report by ID
// GET /api/v1/reports/:id
func (h *Handler) GetReport(c *gin.Context) {
	if h.store == nil {
		respondError(c, apperrors.NewBadRequestError("report history is disabled"))
		return
	}

	report, err := h.store.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": report,
	})
}

// HealthCheck returns the service health
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// respondError maps application errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Code {
		case apperrors.ErrCodeConfiguration, apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
		case apperrors.ErrCodeTransport:
			status = http.StatusBadGateway
		}
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}
