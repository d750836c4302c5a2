package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayushshivam48/edulytix-api/internal/middleware"
	"github.com/ayushshivam48/edulytix-api/internal/service"
	appErrors "github.com/ayushshivam48/edulytix-api/pkg/errors"
	"github.com/ayushshivam48/edulytix-api/pkg/response"
)

// DashboardHandler serves aggregated home views per role.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler creates a new instance of DashboardHandler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// AdminOverview godoc
// @Summary Return headline counts for the admin home view
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.Envelope{data=models.AdminOverview}
// @Router /dashboard/admin [get]
func (h *DashboardHandler) AdminOverview(c *gin.Context) {
	overview, err := h.dashboards.AdminOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// StudentHome returns the authenticated student's aggregated home view.
func (h *DashboardHandler) StudentHome(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.dashboards.StudentHome(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
