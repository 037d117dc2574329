package dashboard

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	staffRepo      staff.StaffRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	loc            *time.Location
	now            func() time.Time
}

func NewDashboardService(
	staffRepo staff.StaffRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	loc *time.Location,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		staffRepo:      staffRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// GetOverview implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetOverview(ctx context.Context, req dashboard.OverviewRequest) (*dashboard.OverviewResponse, error) {
	today := utils.DateKey(s.now(), s.loc)
	todayDate, err := utils.ParseDateKey(today)
	if err != nil {
		return nil, err
	}

	var (
		staffList    []staff.StaffProfile
		todayRecords []attendance.Record
		pending      []leave.LeaveRequest
		recent       []leave.LeaveRequest
		onLeave      []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Staff directory (role staff only)
	g.Go(func() error {
		role := user.RoleStaff
		list, err := s.staffRepo.List(gCtx, staff.StaffFilter{Role: &role})
		if err != nil {
			return fmt.Errorf("failed to list staff: %w", err)
		}
		staffList = list
		return nil
	})

	// 2. Today's attendance
	g.Go(func() error {
		records, err := s.attendanceRepo.ListByDate(gCtx, today)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		todayRecords = records
		return nil
	})

	// 3. Pending inbox
	g.Go(func() error {
		status := leave.StatusPending
		requests, err := s.leaveRepo.List(gCtx, leave.LeaveRequestFilter{Status: &status})
		if err != nil {
			return fmt.Errorf("failed to list pending leave: %w", err)
		}
		pending = requests
		return nil
	})

	// 4. Recent activity
	g.Go(func() error {
		requests, err := s.leaveRepo.List(gCtx, leave.LeaveRequestFilter{Limit: dashboard.RecentActivityLimit})
		if err != nil {
			return fmt.Errorf("failed to list recent leave: %w", err)
		}
		recent = requests
		return nil
	})

	// 5. Approved leave covering today
	g.Go(func() error {
		requests, err := s.leaveRepo.ListApprovedCovering(gCtx, todayDate)
		if err != nil {
			return fmt.Errorf("failed to list leave covering today: %w", err)
		}
		onLeave = requests
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(todayRecords))
	recordedOnLeave := make(map[string]bool)
	for _, r := range todayRecords {
		switch r.Status {
		case attendance.StatusPresent:
			present[r.UserID] = true
		case attendance.StatusOnLeave:
			recordedOnLeave[r.UserID] = true
		}
	}
	approvedOnLeave := make(map[string]bool, len(onLeave))
	for _, r := range onLeave {
		approvedOnLeave[r.UserID] = true
	}
	hasPending := make(map[string]bool, len(pending))
	for _, r := range pending {
		hasPending[r.UserID] = true
	}

	kpis := dashboard.KPIResponse{
		TotalStaff:    len(staffList),
		PendingLeaves: int64(len(pending)),
	}
	search := strings.ToLower(strings.TrimSpace(req.Search))
	rows := make([]dashboard.StaffRow, 0, len(staffList))

	for _, p := range staffList {
		// Counts only include profiles still in the directory.
		status := attendance.StatusAbsent
		switch {
		case present[p.ID]:
			status = attendance.StatusPresent
			kpis.PresentToday++
		case approvedOnLeave[p.ID] || recordedOnLeave[p.ID]:
			status = attendance.StatusOnLeave
		}
		if status == attendance.StatusOnLeave {
			kpis.OnLeaveToday++
		}

		if !matchesFilter(req.Filter, status, hasPending[p.ID]) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}

		rows = append(rows, dashboard.StaffRow{
			StaffResponse:   staff.NewStaffResponse(p),
			TodayStatus:     status,
			HasPendingLeave: hasPending[p.ID],
		})
	}
	kpis.AbsentToday = kpis.TotalStaff - kpis.PresentToday

	return &dashboard.OverviewResponse{
		Date:             today,
		Filter:           req.Filter,
		KPIs:             kpis,
		Staff:            rows,
		PendingApprovals: leave.NewLeaveRequestResponses(pending),
		RecentActivity:   leave.NewLeaveRequestResponses(recent),
		OnLeaveToday:     leave.NewLeaveRequestResponses(onLeave),
	}, nil
}

func matchesFilter(filter dashboard.Filter, status attendance.Status, hasPending bool) bool {
	switch filter {
	case dashboard.FilterPresent:
		return status == attendance.StatusPresent
	case dashboard.FilterAbsent:
		return status != attendance.StatusPresent
	case dashboard.FilterPending:
		return hasPending
	default:
		return true
	}
}

// GetStaffHistory implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetStaffHistory(ctx context.Context, staffID string) (*dashboard.StaffHistoryResponse, error) {
	profile, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	days := utils.LastNDays(s.now(), s.loc, dashboard.HistoryDays)
	records, err := s.attendanceRepo.ListByUser(ctx, staffID, days[len(days)-1], days[0])
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}

	byDate := make(map[string]attendance.Status, len(records))
	for _, r := range records {
		byDate[r.Date] = r.Status
	}

	resp := &dashboard.StaffHistoryResponse{
		Staff: staff.NewStaffResponse(profile),
		Days:  make([]dashboard.DayStatus, 0, len(days)),
	}
	for _, d := range days {
		status, ok := byDate[d]
		if !ok {
			status = attendance.StatusAbsent
		}
		if status == attendance.StatusPresent {
			resp.PresentDays++
		}
		resp.Days = append(resp.Days, dashboard.DayStatus{Date: d, Status: status})
	}
	resp.Consistency = int(math.Round(float64(resp.PresentDays) / float64(dashboard.HistoryDays) * 100))

	return resp, nil
}
