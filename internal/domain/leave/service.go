package leave

import (
	"context"
)

type LeaveService interface {
	Submit(ctx context.Context, userID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, userID string) ([]LeaveRequestResponse, error)
	List(ctx context.Context, req ListLeaveRequest) ([]LeaveRequestResponse, error)

	// Decide writes the decision and, for approvals, deducts the cost from the
	// requester's balance and reconciles today's attendance record.
	Decide(ctx context.Context, adminID, requestID string, req DecideRequest) (DecisionResult, error)
	Delete(ctx context.Context, userID, requestID string, req DeleteLeaveRequest) error
}
