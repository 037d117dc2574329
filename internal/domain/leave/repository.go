package leave

import (
	"context"
	"time"
)

// LeaveRequestFilter narrows a listing. Zero values mean "any".
type LeaveRequestFilter struct {
	UserID *string
	Status *Status
	Limit  int
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// List returns requests newest first.
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// ListApprovedCovering returns approved date-ranged requests whose range contains date.
	ListApprovedCovering(ctx context.Context, date time.Time) ([]LeaveRequest, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	// UpdateStatus sets the status only while the request is still Pending.
	// It returns ErrLeaveRequestAlreadyProcessed otherwise.
	UpdateStatus(ctx context.Context, id string, status Status, decidedBy string, decidedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
