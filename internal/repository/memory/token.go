package memory

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
)

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revokedAt *time.Time
}

func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

type refreshTokenRepository struct {
	db *DB
}

func NewRefreshTokenRepository(db *DB) auth.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.refreshTokens[hashToken(token)] = refreshToken{
		userID:    userID,
		expiresAt: time.Unix(expiresAt, 0).UTC(),
	}
	return nil
}

func (r *refreshTokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rt, ok := r.db.refreshTokens[hashToken(token)]
	if !ok {
		return false, auth.ErrRefreshTokenNotFound
	}
	return rt.revokedAt != nil || !rt.expiresAt.After(time.Now()), nil
}

func (r *refreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := hashToken(token)
	rt, ok := r.db.refreshTokens[key]
	if !ok || rt.revokedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	rt.revokedAt = &now
	r.db.refreshTokens[key] = rt
	return nil
}

func (r *refreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for key, rt := range r.db.refreshTokens {
		if rt.expiresAt.Before(before) || rt.revokedAt != nil {
			delete(r.db.refreshTokens, key)
			n++
		}
	}
	return n, nil
}

type passwordResetRepository struct {
	db *DB
}

func NewPasswordResetRepository(db *DB) auth.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset auth.PasswordReset) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if reset.CreatedAt.IsZero() {
		reset.CreatedAt = time.Now().UTC()
	}
	r.db.resets[reset.TokenHash] = reset
	return nil
}

func (r *passwordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (auth.PasswordReset, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	reset, ok := r.db.resets[tokenHash]
	if !ok {
		return auth.PasswordReset{}, auth.ErrResetTokenInvalid
	}
	return reset, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	reset, ok := r.db.resets[tokenHash]
	if !ok || reset.UsedAt != nil {
		return auth.ErrResetTokenInvalid
	}
	reset.UsedAt = &usedAt
	r.db.resets[tokenHash] = reset
	return nil
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for key, reset := range r.db.resets {
		if reset.ExpiresAt.Before(before) || reset.UsedAt != nil {
			delete(r.db.resets, key)
			n++
		}
	}
	return n, nil
}
