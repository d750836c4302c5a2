package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
	"github.com/ayushshivam48/edulytix-api/pkg/response"
)

// ResultHandler serves exam result endpoints.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler creates a new instance of ResultHandler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Create records a result row.
func (h *ResultHandler) Create(c *gin.Context) {
	var req models.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.results.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List returns result rows for the given filters.
func (h *ResultHandler) List(c *gin.Context) {
	filter := models.ResultFilter{
		Course:    c.Query("course"),
		Semester:  queryInt(c, "semester"),
		Subject:   c.Query("subject"),
		StudentID: c.Query("student"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "page_size"),
	}

	results, pagination, err := h.results.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, pagination)
}

// Summary godoc
// @Summary Return a student's full academic record with per-semester SGPA
// @Tags results
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope{data=models.ResultSummary}
// @Router /results/student/{id} [get]
func (h *ResultHandler) Summary(c *gin.Context) {
	summary, err := h.results.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Update replaces a result row's marks and status.
func (h *ResultHandler) Update(c *gin.Context) {
	var req models.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.results.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete removes a result row.
func (h *ResultHandler) Delete(c *gin.Context) {
	if err := h.results.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
