package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	"github.com/ayushshivam48/edulytix-api/pkg/response"
)

// ExportHandler serves file downloads of rosters and result histories.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler creates a new instance of ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Students streams the student roster as CSV or PDF.
func (h *ExportHandler) Students(c *gin.Context) {
	format := exportFormat(c)
	filter := models.StudentFilter{
		Course:   c.Query("course"),
		Semester: queryInt(c, "semester"),
	}

	payload, contentType, err := h.exports.Students(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=students.%s", format))
	c.Data(http.StatusOK, contentType, payload)
}

// Results streams a student's result history as CSV or PDF.
func (h *ExportHandler) Results(c *gin.Context) {
	format := exportFormat(c)

	payload, contentType, err := h.exports.Results(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=results.%s", format))
	c.Data(http.StatusOK, contentType, payload)
}

func exportFormat(c *gin.Context) service.ExportFormat {
	if c.Query("format") == "pdf" {
		return service.ExportFormatPDF
	}
	return service.ExportFormatCSV
}
