package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	transactor database.Transactor
	identity   auth.IdentityProvider
	user.UserRepository
	staffRepository staff.StaffRepository
	jwt.Service
	auth.RefreshTokenRepository
	resetRepository auth.PasswordResetRepository
}

func NewAuthService(
	transactor database.Transactor,
	identity auth.IdentityProvider,
	userRepository user.UserRepository,
	staffRepository staff.StaffRepository,
	jwtService jwt.Service,
	refreshTokenRepository auth.RefreshTokenRepository,
	resetRepository auth.PasswordResetRepository,
) auth.AuthService {
	return &AuthServiceImpl{
		transactor:             transactor,
		identity:               identity,
		UserRepository:         userRepository,
		staffRepository:        staffRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
		resetRepository:        resetRepository,
	}
}

// resolveProfile loads the directory record of a signed-in principal.
func (a *AuthServiceImpl) resolveProfile(ctx context.Context, principalID string) (staff.StaffProfile, error) {
	profile, err := a.staffRepository.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return staff.StaffProfile{}, auth.ErrProfileMissing
		}
		return staff.StaffProfile{}, fmt.Errorf("failed to get staff profile: %w", err)
	}
	return profile, nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, principal user.User, profile staff.StaffProfile, sessionTrackReq auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	var loginResponse auth.LoginResponse

	err := a.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		loginResponse.AccessToken, loginResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(principal.ID, principal.Email, profile.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		loginResponse.RefreshToken, loginResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(principal.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		err = a.CreateRefreshToken(txCtx, principal.ID, loginResponse.RefreshToken, loginResponse.RefreshTokenExpiresIn, sessionTrackReq)
		if err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	loginResponse.Role = profile.Role
	loginResponse.Profile = staff.NewStaffResponse(profile)
	return loginResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	principal, err := a.identity.Authenticate(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	profile, err := a.resolveProfile(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, auth.ErrProfileMissing) {
			slog.Warn("Login rejected: principal has no staff profile", "user_id", principal.ID)
		}
		return auth.LoginResponse{}, err
	}

	return a.issueTokens(ctx, principal, profile, sessionTrackReq)
}

// LoginWithGoogle implements auth.AuthService. Accounts are provisioned by an
// admin, so an unknown email is rejected rather than registered.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleID, googleEmail string, sessionTrackReq auth.SessionTrackingRequest) (auth.LoginResponse, error) {
	principal, err := a.UserRepository.GetByEmail(ctx, googleEmail)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}

	if principal.GoogleID == nil {
		principal, err = a.UserRepository.LinkGoogleAccount(ctx, googleID, principal.Email)
		if err != nil {
			return auth.LoginResponse{}, err
		}
	} else if *principal.GoogleID != googleID {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	profile, err := a.resolveProfile(ctx, principal.ID)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return a.issueTokens(ctx, principal, profile, sessionTrackReq)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.RevokeRefreshToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	// 1. Verify signature, expiry and token type
	userID, err := a.Service.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check store for revocation/expiry (pass raw token, not hash)
	isRevoked, err := a.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Role comes from the directory, so a role change applies on the next refresh
	principal, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	profile, err := a.resolveProfile(ctx, principal.ID)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(principal.ID, principal.Email, profile.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// ForgotPassword implements auth.AuthService.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) error {
	if err := a.identity.SendResetMessage(ctx, req.Email); err != nil {
		if errors.Is(err, auth.ErrResetDeliveryFailed) {
			return auth.ErrResetDeliveryFailed
		}
		return err
	}
	return nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return a.identity.ConfirmReset(ctx, req.Token, req.NewPassword)
}

// CurrentSession implements auth.AuthService.
func (a *AuthServiceImpl) CurrentSession(ctx context.Context, principalID string) (*auth.Session, error) {
	session := auth.NewSession()
	if principalID == "" {
		session.Clear()
		return session, nil
	}

	principal, err := a.UserRepository.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			session.Clear()
			return session, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile, err := a.resolveProfile(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, auth.ErrProfileMissing) {
			session.Clear()
			return session, nil
		}
		return nil, err
	}

	session.Populate(principal, profile)
	return session, nil
}

// IssueStreamToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueStreamToken(ctx context.Context, principalID string) (auth.StreamTokenResponse, error) {
	profile, err := a.resolveProfile(ctx, principalID)
	if err != nil {
		return auth.StreamTokenResponse{}, err
	}

	token, expiresIn, err := a.Service.GenerateStreamToken(profile.ID, profile.Role)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// PurgeExpiredTokens implements auth.AuthService.
func (a *AuthServiceImpl) PurgeExpiredTokens(ctx context.Context) error {
	now := time.Now()

	refreshPurged, err := a.DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	resetPurged, err := a.resetRepository.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to purge reset tokens: %w", err)
	}

	slog.Info("Purged expired tokens", "refresh_tokens", refreshPurged, "password_resets", resetPurged)
	return nil
}
