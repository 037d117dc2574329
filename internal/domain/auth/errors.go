package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("Invalid Email or Password")
	ErrProfileMissing         = errors.New("User data not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked    = errors.New("refresh token has been revoked")
	ErrRefreshTokenNotFound   = errors.New("refresh token not found")
	ErrResetTokenInvalid      = errors.New("password reset link is invalid or has expired")
	ErrResetDeliveryFailed    = errors.New("failed to send password reset message")

	ErrRefreshTokenCookieNotFound = errors.New("refresh token cookie not found")
	ErrRefreshTokenCookieEmpty    = errors.New("refresh token cookie is empty")

	ErrGoogleAccessDeniedByUser = errors.New("google access denied by user")
	ErrStateCookieEmpty         = errors.New("state cookie is empty")
	ErrStateMismatch            = errors.New("oauth state mismatch")
	ErrGoogleEmailNotVerified   = errors.New("google email is not verified")
)
