package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayushshivam48/edulytix-api/internal/models"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
	"github.com/ayushshivam48/edulytix-api/pkg/response"
)

// AttendanceHandler serves attendance recording and reporting endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler creates a new instance of AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Record stores a single attendance entry.
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req models.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	record, err := h.attendance.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// RecordBulk stores attendance for a whole class session.
func (h *AttendanceHandler) RecordBulk(c *gin.Context) {
	var req models.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	count, err := h.attendance.RecordBulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"recorded": count})
}

// List returns attendance rows for the given filters.
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := models.AttendanceFilter{
		StudentID: c.Query("student"),
		Course:    c.Query("course"),
		Semester:  queryInt(c, "semester"),
		Subject:   c.Query("subject"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "page_size"),
	}
	if from := queryDate(c, "from"); from != nil {
		filter.DateFrom = from
	}
	if to := queryDate(c, "to"); to != nil {
		filter.DateTo = to
	}

	records, pagination, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Summary godoc
// @Summary Return a student's attendance percentage per subject
// @Tags attendance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope{data=[]models.SubjectAttendanceSummary}
// @Router /attendance/student/{id} [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.attendance.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func queryDate(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
