package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
	apperrors "github.com/opencouncil/complaint-dedup/pkg/errors"
)

// Handler wires the HTTP transport to the duplicate checker.
type Handler struct {
	dedupSvc dedup.Service
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(dedupSvc dedup.Service, logger *slog.Logger) *Handler {
	return &Handler{
		dedupSvc: dedupSvc,
		logger:   logger.With("component", "http.handler"),
	}
}

// CheckDuplicates runs a duplicate check for a complaint about to be created.
// The verdict is advisory: whether a failed check blocks the submission
// (fail-closed) or lets it through (fail-open) is the portal's decision, so
// errors are returned as-is instead of being downgraded to empty verdicts.
func (h *Handler) CheckDuplicates(c *gin.Context) {
	var req dedup.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	verdict, err := h.dedupSvc.CheckForDuplicates(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "duplicate_check_failed"
		switch {
		case apperrors.IsCode(err, dedup.CodeInvalidInput):
			status = http.StatusBadRequest
			code = dedup.CodeInvalidInput
		case apperrors.IsCode(err, dedup.CodeInvalidThreshold):
			status = http.StatusBadRequest
			code = dedup.CodeInvalidThreshold
		case apperrors.IsCode(err, dedup.CodeModelLoad):
			status = http.StatusBadGateway
			code = dedup.CodeModelLoad
		case apperrors.IsCode(err, dedup.CodeEmbedding):
			status = http.StatusBadGateway
			code = dedup.CodeEmbedding
		case apperrors.IsCode(err, dedup.CodeRepository):
			code = dedup.CodeRepository
		case apperrors.IsCode(err, dedup.CodeDimensionMismatch):
			code = dedup.CodeDimensionMismatch
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
