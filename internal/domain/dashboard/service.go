package dashboard

import "context"

// DashboardService defines the admin dashboard read models
type DashboardService interface {
	// GetOverview returns KPIs, the filtered staff table, the pending inbox and recent activity
	GetOverview(ctx context.Context, req OverviewRequest) (*OverviewResponse, error)

	// GetStaffHistory returns the last seven days of attendance and the consistency score
	GetStaffHistory(ctx context.Context, staffID string) (*StaffHistoryResponse, error)
}
