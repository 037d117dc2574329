package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/sse"
)

type StaffServiceImpl struct {
	transactor database.Transactor
	identity   auth.IdentityProvider
	staffRepo  staff.StaffRepository
	publisher  sse.Publisher
}

func NewStaffService(
	transactor database.Transactor,
	identity auth.IdentityProvider,
	staffRepo staff.StaffRepository,
	publisher sse.Publisher,
) staff.StaffService {
	return &StaffServiceImpl{
		transactor: transactor,
		identity:   identity,
		staffRepo:  staffRepo,
		publisher:  publisher,
	}
}

func (s *StaffServiceImpl) notify(ctx context.Context, event, id string) {
	s.publisher.Publish(ctx, sse.Event{Topic: sse.TopicStaff, Event: event, Key: id})
}

// CreateStaffAccount implements staff.StaffService.
func (s *StaffServiceImpl) CreateStaffAccount(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	principal, err := s.identity.CreatePrincipal(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyRegistered) {
			return staff.StaffResponse{}, staff.ErrEmailAlreadyRegistered
		}
		return staff.StaffResponse{}, fmt.Errorf("failed to create identity account: %w", err)
	}

	balances := leave.DefaultBalances()
	if len(req.LeaveBalances) > 0 {
		balances = req.LeaveBalances.Normalized()
	}

	profile, err := s.staffRepo.Put(ctx, staff.StaffProfile{
		ID:             principal.ID,
		Name:           strings.TrimSpace(req.Name),
		Email:          principal.Email,
		Designation:    strings.TrimSpace(req.Designation),
		EmploymentType: req.EmploymentType,
		Role:           req.Role,
		LeaveBalances:  balances,
	})
	if err != nil {
		// The identity account stays behind; it has to be cleaned up by hand.
		slog.Error("Staff profile write failed after account creation",
			"user_id", principal.ID,
			"email", principal.Email,
			"error", err,
		)
		return staff.StaffResponse{}, fmt.Errorf("%w: %v", staff.ErrProfileWriteFailed, err)
	}

	slog.Info("Staff account provisioned", "user_id", profile.ID, "role", profile.Role)
	s.notify(ctx, "created", profile.ID)
	return staff.NewStaffResponse(profile), nil
}

// Get implements staff.StaffService.
func (s *StaffServiceImpl) Get(ctx context.Context, id string) (staff.StaffResponse, error) {
	profile, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return staff.NewStaffResponse(profile), nil
}

// GetMyProfile implements staff.StaffService.
func (s *StaffServiceImpl) GetMyProfile(ctx context.Context, principalID string) (staff.StaffResponse, error) {
	profile, err := s.staffRepo.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return staff.StaffResponse{}, auth.ErrProfileMissing
		}
		return staff.StaffResponse{}, err
	}
	return staff.NewStaffResponse(profile), nil
}

// List implements staff.StaffService.
func (s *StaffServiceImpl) List(ctx context.Context, req staff.ListStaffRequest) ([]staff.StaffResponse, error) {
	filter := staff.StaffFilter{Search: req.Search}
	if req.Role != "" {
		role := user.Role(req.Role)
		filter.Role = &role
	}

	profiles, err := s.staffRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	out := make([]staff.StaffResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, staff.NewStaffResponse(p))
	}
	return out, nil
}

// UpdateBalances implements staff.StaffService.
func (s *StaffServiceImpl) UpdateBalances(ctx context.Context, id string, req staff.UpdateBalancesRequest) (staff.StaffResponse, error) {
	var updated staff.StaffProfile

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		profile, err := s.staffRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		balances := req.LeaveBalances.Normalized()
		if err := s.staffRepo.UpdateBalances(txCtx, id, balances); err != nil {
			return fmt.Errorf("failed to update balances: %w", err)
		}
		profile.LeaveBalances = balances
		updated = profile
		return nil
	})
	if err != nil {
		return staff.StaffResponse{}, err
	}

	s.notify(ctx, "balances_updated", id)
	return staff.NewStaffResponse(updated), nil
}

// Delete implements staff.StaffService.
func (s *StaffServiceImpl) Delete(ctx context.Context, actorID, id string, req staff.DeleteStaffRequest) error {
	if !req.Confirmed {
		return staff.ErrConfirmationRequired
	}
	if actorID == id {
		return staff.ErrCannotDeleteSelf
	}

	if err := s.staffRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Staff profile deleted", "user_id", id, "deleted_by", actorID)
	s.notify(ctx, "deleted", id)
	return nil
}
