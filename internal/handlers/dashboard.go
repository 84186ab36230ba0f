package handlers

import (
	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// DashboardHandler serves the landing view.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetDashboard returns the caller's profile, quick actions and stats.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboard.Get(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Dashboard retrieved successfully", dashboard)
}
