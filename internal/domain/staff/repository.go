package staff

import (
	"context"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
)

type StaffFilter struct {
	Role   *user.Role
	Search string
}

type StaffRepository interface {
	// Put creates or replaces the profile keyed by ID.
	Put(ctx context.Context, profile StaffProfile) (StaffProfile, error)
	GetByID(ctx context.Context, id string) (StaffProfile, error)
	// GetByIDForUpdate locks the profile row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (StaffProfile, error)
	// List returns profiles ordered by name.
	List(ctx context.Context, filter StaffFilter) ([]StaffProfile, error)
	UpdateBalances(ctx context.Context, id string, balances leave.Balances) error
	Delete(ctx context.Context, id string) error
}
