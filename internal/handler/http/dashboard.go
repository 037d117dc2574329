package http

import (
	"net/http"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler interface {
	// GetOverview returns KPIs, the staff table and the leave inbox
	GetOverview(w http.ResponseWriter, r *http.Request)
	// GetStaffHistory returns one staff member's last week of attendance
	GetStaffHistory(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetOverview handles GET /dashboard?filter=&search=
func (h *dashboardHandlerImpl) GetOverview(w http.ResponseWriter, r *http.Request) {
	req := dashboard.OverviewRequest{
		Filter: dashboard.Filter(r.URL.Query().Get("filter")),
		Search: r.URL.Query().Get("search"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetOverview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStaffHistory handles GET /staff/{id}/history
func (h *dashboardHandlerImpl) GetStaffHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	result, err := h.dashboardService.GetStaffHistory(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
