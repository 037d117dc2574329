package dashboard

import (
	"strings"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/validator"
)

type Filter string

const (
	FilterAll     Filter = "ALL"
	FilterPresent Filter = "PRESENT"
	FilterAbsent  Filter = "ABSENT"
	FilterPending Filter = "PENDING"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterPresent, FilterAbsent, FilterPending:
		return true
	}
	return false
}

// RecentActivityLimit is the number of requests shown in the activity log.
const RecentActivityLimit = 5

// HistoryDays is the window of the per-staff attendance history.
const HistoryDays = 7

type OverviewRequest struct {
	Filter Filter
	Search string
}

func (r *OverviewRequest) Validate() error {
	r.Filter = Filter(strings.ToUpper(string(r.Filter)))
	if r.Filter == "" {
		r.Filter = FilterAll
	}
	if !r.Filter.IsValid() {
		return validator.ValidationErrors{{
			Field:   "filter",
			Message: "filter must be ALL, PRESENT, ABSENT or PENDING",
		}}
	}
	return nil
}

// ========== OVERVIEW ==========

type KPIResponse struct {
	TotalStaff    int   `json:"total_staff"`
	PresentToday  int   `json:"present_today"`
	AbsentToday   int   `json:"absent_today"`
	PendingLeaves int64 `json:"pending_leaves"`
	OnLeaveToday  int   `json:"on_leave_today"`
}

type StaffRow struct {
	staff.StaffResponse
	TodayStatus     attendance.Status `json:"today_status"`
	HasPendingLeave bool              `json:"has_pending_leave"`
}

type OverviewResponse struct {
	Date             string                       `json:"date"`
	Filter           Filter                       `json:"filter"`
	KPIs             KPIResponse                  `json:"kpis"`
	Staff            []StaffRow                   `json:"staff"`
	PendingApprovals []leave.LeaveRequestResponse `json:"pending_approvals"`
	RecentActivity   []leave.LeaveRequestResponse `json:"recent_activity"`
	OnLeaveToday     []leave.LeaveRequestResponse `json:"on_leave_today"`
}

// ========== STAFF HISTORY ==========

type DayStatus struct {
	Date   string            `json:"date"`
	Status attendance.Status `json:"status"`
}

type StaffHistoryResponse struct {
	Staff       staff.StaffResponse `json:"staff"`
	Days        []DayStatus         `json:"days"`
	PresentDays int                 `json:"present_days"`
	Consistency int                 `json:"consistency"`
}
