package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
	"github.com/ayushshivam48/edulytix-api/pkg/response"
)

// AnnouncementHandler serves announcement endpoints.
type AnnouncementHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementHandler creates a new instance of AnnouncementHandler.
func NewAnnouncementHandler(announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// Create publishes an announcement.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req models.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	announcement, err := h.announcements.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, announcement)
}

// List returns announcements visible to the given scope.
func (h *AnnouncementHandler) List(c *gin.Context) {
	filter := models.AnnouncementFilter{
		Course:   c.Query("course"),
		Semester: queryInt(c, "semester"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}

	announcements, pagination, err := h.announcements.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcements, pagination)
}

// Update replaces an announcement's details.
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req models.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	announcement, err := h.announcements.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement, nil)
}

// Delete removes an announcement.
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
