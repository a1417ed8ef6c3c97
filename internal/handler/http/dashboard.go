package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetStats returns directory size, today's attendance and recent activity
	GetStats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetStats handles GET /dashboard
func (h *dashboardHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, result)
}
