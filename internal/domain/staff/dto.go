package staff

import (
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/validator"
)

type CreateStaffRequest struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Password       string         `json:"password"`
	Designation    string         `json:"designation"`
	EmploymentType EmploymentType `json:"employment_type"`
	Role           user.Role      `json:"role"`
	LeaveBalances  leave.Balances `json:"leave_balances,omitempty"`
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if !validator.IsValidPassword(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters long",
		})
	}
	if validator.IsEmpty(r.Designation) {
		errs = append(errs, validator.ValidationError{
			Field:   "designation",
			Message: "designation is required",
		})
	}
	if r.EmploymentType == "" {
		r.EmploymentType = EmploymentTeaching
	}
	if !r.EmploymentType.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "employment_type",
			Message: "employment_type must be Teaching or Non-Teaching",
		})
	}
	if r.Role == "" {
		r.Role = user.RoleStaff
	}
	if !r.Role.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be staff or admin",
		})
	}
	errs = append(errs, validateBalanceKeys(r.LeaveBalances, false)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateBalancesRequest replaces the whole balance map.
type UpdateBalancesRequest struct {
	LeaveBalances leave.Balances `json:"leave_balances"`
}

func (r *UpdateBalancesRequest) Validate() error {
	errs := validateBalanceKeys(r.LeaveBalances, true)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateBalanceKeys(b leave.Balances, requireAll bool) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for t := range b {
		if !t.IsKnown() {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_balances." + string(t),
				Message: "unknown leave type",
			})
		}
	}
	if requireAll {
		for _, t := range leave.Types {
			if _, ok := b[t]; !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "leave_balances." + string(t),
					Message: string(t) + " is required",
				})
			}
		}
	}
	return errs
}

type ListStaffRequest struct {
	Search string
	Role   string
}

func (r *ListStaffRequest) Validate() error {
	if r.Role != "" && !user.Role(r.Role).IsValid() {
		return validator.ValidationErrors{{
			Field:   "role",
			Message: "role must be staff or admin",
		}}
	}
	return nil
}

type DeleteStaffRequest struct {
	Confirmed bool `json:"confirmed"`
}

type StaffResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Designation    string         `json:"designation"`
	EmploymentType EmploymentType `json:"employment_type"`
	Role           user.Role      `json:"role"`
	LeaveBalances  leave.Balances `json:"leave_balances"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewStaffResponse normalizes balances so every known key is present.
func NewStaffResponse(p StaffProfile) StaffResponse {
	return StaffResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Designation:    p.Designation,
		EmploymentType: p.EmploymentType,
		Role:           p.Role,
		LeaveBalances:  p.LeaveBalances.Normalized(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
