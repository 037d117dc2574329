package auth

import (
	"context"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
)

// IdentityProvider owns credentials. It never reads or writes directory data.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (user.User, error)
	// CreatePrincipal registers an account without signing it in.
	CreatePrincipal(ctx context.Context, email, password string) (user.User, error)
	// SendResetMessage succeeds silently for unknown emails.
	SendResetMessage(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, token, newPassword string) error
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, sessionReq SessionTrackingRequest) (LoginResponse, error)
	LoginWithGoogle(ctx context.Context, googleID, email string, sessionReq SessionTrackingRequest) (LoginResponse, error)
	// Logout is idempotent.
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (AccessTokenResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	// CurrentSession resolves a principal ID into a session. An empty ID or a
	// principal without a profile resolves to SessionAnonymous.
	CurrentSession(ctx context.Context, principalID string) (*Session, error)
	IssueStreamToken(ctx context.Context, principalID string) (StreamTokenResponse, error)
	PurgeExpiredTokens(ctx context.Context) error
}
