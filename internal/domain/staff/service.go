package staff

import "context"

type StaffService interface {
	// CreateStaffAccount provisions an identity account and its directory
	// record without touching the caller's own session.
	CreateStaffAccount(ctx context.Context, req CreateStaffRequest) (StaffResponse, error)
	Get(ctx context.Context, id string) (StaffResponse, error)
	GetMyProfile(ctx context.Context, principalID string) (StaffResponse, error)
	List(ctx context.Context, req ListStaffRequest) ([]StaffResponse, error)
	UpdateBalances(ctx context.Context, id string, req UpdateBalancesRequest) (StaffResponse, error)
	// Delete removes the directory record only. The identity account stays.
	Delete(ctx context.Context, actorID, id string, req DeleteStaffRequest) error
}
