package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists hashed refresh tokens.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

type PasswordReset struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// PasswordResetRepository persists hashed one-time reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset PasswordReset) error
	GetByTokenHash(ctx context.Context, tokenHash string) (PasswordReset, error)
	MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
