package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
	"github.com/ayushshivam48/edulytix-api/pkg/response"
)

// AssignmentHandler serves assignment endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler creates a new instance of AssignmentHandler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Create publishes an assignment.
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// List returns assignments for the given filters.
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		Course:   c.Query("course"),
		Semester: queryInt(c, "semester"),
		Subject:  c.Query("subject"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}

	assignments, pagination, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Get returns one assignment.
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Update replaces an assignment's details.
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	assignment, err := h.assignments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete removes an assignment.
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
