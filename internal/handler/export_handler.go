package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/csi-informatics/results-api/internal/service"
	"github.com/csi-informatics/results-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, format string) (*service.ExportResult, error)
}

// ExportHandler wires HTTP endpoints to the export service.
type ExportHandler struct {
	service exportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export the score roster
// @Description Download the full score roster as CSV or PDF
// @Tags Export
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /scores/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	result, err := h.service.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
