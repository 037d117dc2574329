package staff

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/config"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
)

// BootstrapAdmin provisions the configured admin account when the directory
// has no admin yet. It does nothing when no admin email is configured.
func BootstrapAdmin(ctx context.Context, svc staff.StaffService, cfg config.BootstrapConfig) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	admins, err := svc.List(ctx, staff.ListStaffRequest{Role: string(user.RoleAdmin)})
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		return nil
	}

	req := staff.CreateStaffRequest{
		Name:        cfg.AdminName,
		Email:       cfg.AdminEmail,
		Password:    cfg.AdminPassword,
		Designation: "Administrator",
		Role:        user.RoleAdmin,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	created, err := svc.CreateStaffAccount(ctx, req)
	if err != nil {
		if errors.Is(err, staff.ErrEmailAlreadyRegistered) {
			slog.Warn("Bootstrap admin email is registered but has no admin profile", "email", cfg.AdminEmail)
			return nil
		}
		return err
	}

	slog.Info("Bootstrap admin created", "user_id", created.ID, "email", created.Email)
	return nil
}
