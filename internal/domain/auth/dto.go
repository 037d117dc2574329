package auth

import (
	"strings"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
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
	if r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if !validator.IsValidEmail(r.Email) {
		return validator.ValidationErrors{{
			Field:   "email",
			Message: "email must be a valid email address",
		}}
	}
	return nil
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token is required",
		})
	}
	if !validator.IsValidPassword(r.NewPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new_password must be at least 6 characters long",
		})
	}
	if r.NewPassword != r.ConfirmPassword {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_password",
			Message: "confirm_password must match new_password",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionTrackingRequest struct {
	IPAddress string
	UserAgent string
}

type LoginResponse struct {
	Role                  user.Role           `json:"role"`
	Profile               staff.StaffResponse `json:"profile"`
	AccessToken           string              `json:"access_token"`
	AccessTokenExpiresIn  int64               `json:"access_token_expires_in"`
	RefreshToken          string              `json:"-"`
	RefreshTokenExpiresIn int64               `json:"-"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type SessionResponse struct {
	State   SessionState         `json:"state"`
	Role    user.Role            `json:"role,omitempty"`
	Profile *staff.StaffResponse `json:"profile,omitempty"`
}

func NewSessionResponse(s *Session) SessionResponse {
	resp := SessionResponse{State: s.State, Role: s.Role()}
	if s.Profile != nil {
		p := staff.NewStaffResponse(*s.Profile)
		resp.Profile = &p
	}
	return resp
}
