package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/utils"
)

type LeaveServiceImpl struct {
	transactor     database.Transactor
	leaveRepo      leave.LeaveRequestRepository
	staffRepo      staff.StaffRepository
	attendanceRepo attendance.AttendanceRepository
	publisher      sse.Publisher
	loc            *time.Location
	now            func() time.Time
}

func NewLeaveService(
	transactor database.Transactor,
	leaveRepo leave.LeaveRequestRepository,
	staffRepo staff.StaffRepository,
	attendanceRepo attendance.AttendanceRepository,
	publisher sse.Publisher,
	loc *time.Location,
) leave.LeaveService {
	return &LeaveServiceImpl{
		transactor:     transactor,
		leaveRepo:      leaveRepo,
		staffRepo:      staffRepo,
		attendanceRepo: attendanceRepo,
		publisher:      publisher,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *LeaveServiceImpl) notify(ctx context.Context, topic, event, key string) {
	s.publisher.Publish(ctx, sse.Event{Topic: topic, Event: event, Key: key})
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, userID string, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	// Validate also parses the dates into Start and End.
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	profile, err := s.staffRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return leave.LeaveRequestResponse{}, leave.ErrRequesterProfileNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get requester profile: %w", err)
	}

	request := leave.LeaveRequest{
		UserID:          profile.ID,
		UserName:        profile.Name,
		UserDesignation: profile.Designation,
		Type:            req.Type,
		Reason:          req.Reason,
		Status:          leave.StatusPending,
		AppliedOn:       utils.DisplayDate(s.now(), s.loc),
	}
	if req.Type.IsDateRanged() {
		start, end := req.Start, req.End
		request.StartDate, request.EndDate = &start, &end
	} else {
		duration := req.Duration
		request.Duration = &duration
	}

	created, err := s.leaveRepo.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notify(ctx, sse.TopicLeaves, "created", created.ID)
	return leave.NewLeaveRequestResponse(created), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, userID string) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.leaveRepo.List(ctx, leave.LeaveRequestFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.NewLeaveRequestResponses(requests), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, req leave.ListLeaveRequest) ([]leave.LeaveRequestResponse, error) {
	filter := leave.LeaveRequestFilter{Limit: req.Limit}
	if req.UserID != "" {
		filter.UserID = &req.UserID
	}
	if req.Status != "" {
		status := leave.Status(req.Status)
		filter.Status = &status
	}

	requests, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.NewLeaveRequestResponses(requests), nil
}

// Decide implements leave.LeaveService. Only the status write is fatal; the
// balance and attendance steps report their own outcome and never undo it.
func (s *LeaveServiceImpl) Decide(ctx context.Context, adminID, requestID string, req leave.DecideRequest) (leave.DecisionResult, error) {
	if !req.Decision.IsDecision() {
		return leave.DecisionResult{}, leave.ErrInvalidDecision
	}
	if !req.Confirmed {
		return leave.DecisionResult{}, leave.ErrConfirmationRequired
	}

	request, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.DecisionResult{}, err
	}

	decidedAt := s.now().UTC()
	if err := s.leaveRepo.UpdateStatus(ctx, requestID, req.Decision, adminID, decidedAt); err != nil {
		return leave.DecisionResult{}, err
	}
	request.Status = req.Decision
	request.DecidedBy = &adminID
	request.DecidedAt = &decidedAt

	result := leave.DecisionResult{Status: leave.Succeeded(string(req.Decision))}
	s.notify(ctx, sse.TopicLeaves, "decided", requestID)

	if req.Decision == leave.StatusRejected {
		result.Balance = leave.Skipped("request rejected")
		result.Attendance = leave.Skipped("request rejected")
		result.Request = leave.NewLeaveRequestResponse(request)
		return result, nil
	}

	result.Balance = s.deductBalance(ctx, request, &result)
	result.Attendance = s.markOnLeaveToday(ctx, request)
	result.Request = leave.NewLeaveRequestResponse(request)

	if result.Partial() {
		slog.Warn("Leave decision committed with failed follow-up steps",
			"request_id", requestID,
			"balance", result.Balance.State,
			"attendance", result.Attendance.State,
		)
	}
	return result, nil
}

// deductBalance reads, decrements and writes back the requester's balance
// under a row lock.
func (s *LeaveServiceImpl) deductBalance(ctx context.Context, request leave.LeaveRequest, result *leave.DecisionResult) leave.StepOutcome {
	if !request.Type.IsKnown() {
		slog.Error("Approved leave request has unknown type", "request_id", request.ID, "type", request.Type)
		return leave.Failed(fmt.Sprintf("Unknown Leave Type: %s", request.Type), leave.ErrUnknownLeaveType)
	}

	cost := CalculateCost(request)
	result.Cost = &cost

	var remaining int
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		profile, err := s.staffRepo.GetByIDForUpdate(txCtx, request.UserID)
		if err != nil {
			return err
		}

		balances := profile.LeaveBalances.Normalized()
		balances[request.Type] -= cost
		remaining = balances[request.Type]

		return s.staffRepo.UpdateBalances(txCtx, request.UserID, balances)
	})
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return leave.Skipped("requester profile not found")
		}
		slog.Error("Failed to deduct leave balance", "request_id", request.ID, "error", err)
		return leave.Failed("failed to update leave balance", err)
	}

	result.RemainingBalance = &remaining
	s.notify(ctx, sse.TopicStaff, "balances_updated", request.UserID)
	return leave.Succeeded(fmt.Sprintf("Deducted %d %s", cost, request.Type))
}

// markOnLeaveToday flips today's attendance record to On Leave when the
// approved range covers today. It never creates a record.
func (s *LeaveServiceImpl) markOnLeaveToday(ctx context.Context, request leave.LeaveRequest) leave.StepOutcome {
	if !request.Type.IsDateRanged() {
		return leave.Skipped("not a date-ranged request")
	}

	today := utils.DateKey(s.now(), s.loc)
	if !request.Covers(today) {
		return leave.Skipped("request does not cover today")
	}

	_, err := s.attendanceRepo.Get(ctx, request.UserID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return leave.Skipped("no attendance record for today")
		}
		slog.Error("Failed to read today's attendance", "request_id", request.ID, "error", err)
		return leave.Failed("failed to read attendance", err)
	}

	if err := s.attendanceRepo.UpdateStatus(ctx, request.UserID, today, attendance.StatusOnLeave); err != nil {
		slog.Error("Failed to mark attendance as On Leave", "request_id", request.ID, "error", err)
		return leave.Failed("failed to update attendance", err)
	}

	s.notify(ctx, sse.TopicAttendance, "updated", request.UserID)
	return leave.Succeeded("Marked as 'On Leave' for today.")
}

// Delete implements leave.LeaveService. Balances and attendance are never
// touched, even for approved requests.
func (s *LeaveServiceImpl) Delete(ctx context.Context, userID, requestID string, req leave.DeleteLeaveRequest) error {
	request, err := s.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.UserID != userID {
		return leave.ErrNotRequestOwner
	}
	if !req.Confirmed {
		return leave.ErrConfirmationRequired
	}
	if request.Status == leave.StatusApproved && !req.AcknowledgeNoRefund {
		return leave.ErrDeletionWithoutRefund
	}

	if err := s.leaveRepo.Delete(ctx, requestID); err != nil {
		return err
	}

	s.notify(ctx, sse.TopicLeaves, "deleted", requestID)
	return nil
}
