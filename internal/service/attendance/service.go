package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/config"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/utils"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 90
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	staffRepo staff.StaffRepository
	leaveRepo leave.LeaveRequestRepository
	publisher sse.Publisher
	geofence  config.GeofenceConfig
	loc       *time.Location
	now       func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	staffRepo staff.StaffRepository,
	leaveRepo leave.LeaveRequestRepository,
	publisher sse.Publisher,
	geofence config.GeofenceConfig,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		staffRepo:            staffRepo,
		leaveRepo:            leaveRepo,
		publisher:            publisher,
		geofence:             geofence,
		loc:                  loc,
		now:                  time.Now,
	}
}

func (a *AttendanceServiceImpl) campus() utils.Coordinates {
	return utils.Coordinates{Latitude: a.geofence.Latitude, Longitude: a.geofence.Longitude}
}

// MarkPresent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkPresent(ctx context.Context, userID string, req attendance.MarkPresentRequest) (attendance.MarkPresentResponse, error) {
	if req.GeolocationError != "" || req.Latitude == nil || req.Longitude == nil {
		return attendance.MarkPresentResponse{}, attendance.ErrGeolocationUnavailable
	}

	position := utils.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	distance := utils.DistanceBetween(position, a.campus())
	if distance > a.geofence.RadiusMeters {
		return attendance.MarkPresentResponse{}, &attendance.OutsideGeofenceError{
			Distance: distance,
			Radius:   a.geofence.RadiusMeters,
		}
	}

	nowUTC := a.now().UTC()
	today := utils.DateKey(nowUTC, a.loc)

	_, err := a.AttendanceRepository.Get(ctx, userID, today)
	if err == nil {
		return attendance.MarkPresentResponse{}, attendance.ErrAlreadyMarked
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.MarkPresentResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	var name string
	if profile, err := a.staffRepo.GetByID(ctx, userID); err == nil {
		name = profile.Name
	}

	record, err := a.AttendanceRepository.Put(ctx, attendance.Record{
		UserID:    userID,
		Date:      today,
		Name:      name,
		Status:    attendance.StatusPresent,
		Location:  &position,
		Timestamp: nowUTC,
	})
	if err != nil {
		slog.Error("Failed to write attendance", "user_id", userID, "date", today, "error", err)
		if errors.Is(err, attendance.ErrWriteFailed) {
			return attendance.MarkPresentResponse{}, err
		}
		return attendance.MarkPresentResponse{}, fmt.Errorf("%w: %v", attendance.ErrWriteFailed, err)
	}

	a.publisher.Publish(ctx, sse.Event{Topic: sse.TopicAttendance, Event: "marked", Key: userID})
	return attendance.MarkPresentResponse{
		Record:   attendance.NewRecordResponse(record),
		Distance: distance,
	}, nil
}

// GetToday implements attendance.AttendanceService. Without a record, an
// approved leave covering today reads as On Leave and anything else as Absent.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	now := a.now()
	today := utils.DateKey(now, a.loc)

	record, err := a.AttendanceRepository.Get(ctx, userID, today)
	if err == nil {
		resp := attendance.NewRecordResponse(record)
		return attendance.TodayResponse{Date: today, Status: record.Status, Record: &resp}, nil
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	day, err := utils.ParseDateKey(today)
	if err != nil {
		return attendance.TodayResponse{}, err
	}
	covering, err := a.leaveRepo.ListApprovedCovering(ctx, day)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to list approved leave: %w", err)
	}
	for _, req := range covering {
		if req.UserID == userID {
			return attendance.TodayResponse{Date: today, Status: attendance.StatusOnLeave}, nil
		}
	}

	return attendance.TodayResponse{Date: today, Status: attendance.StatusAbsent}, nil
}

// ListMine implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListMine(ctx context.Context, userID string, days int) ([]attendance.RecordResponse, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	window := utils.LastNDays(a.now(), a.loc, days)
	records, err := a.AttendanceRepository.ListByUser(ctx, userID, window[len(window)-1], window[0])
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.NewRecordResponses(records), nil
}

// ListByDate implements attendance.AttendanceService. An empty date means today.
func (a *AttendanceServiceImpl) ListByDate(ctx context.Context, req attendance.ListByDateRequest) ([]attendance.RecordResponse, error) {
	date := req.Date
	if date == "" {
		date = utils.DateKey(a.now(), a.loc)
	}

	records, err := a.AttendanceRepository.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.NewRecordResponses(records), nil
}
