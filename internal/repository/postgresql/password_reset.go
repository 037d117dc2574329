package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type passwordResetRepositoryImpl struct {
	db *database.DB
}

func NewPasswordResetRepository(db *database.DB) auth.PasswordResetRepository {
	return &passwordResetRepositoryImpl{db: db}
}

func (r *passwordResetRepositoryImpl) Create(ctx context.Context, reset auth.PasswordReset) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO password_resets (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, reset.UserID, reset.TokenHash, reset.ExpiresAt)
	return err
}

func (r *passwordResetRepositoryImpl) GetByTokenHash(ctx context.Context, tokenHash string) (auth.PasswordReset, error) {
	q := GetQuerier(ctx, r.db)

	var reset auth.PasswordReset
	err := q.QueryRow(ctx, `
		SELECT user_id, token_hash, expires_at, used_at, created_at
		FROM password_resets
		WHERE token_hash = $1
	`, tokenHash).Scan(&reset.UserID, &reset.TokenHash, &reset.ExpiresAt, &reset.UsedAt, &reset.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.PasswordReset{}, auth.ErrResetTokenInvalid
		}
		return auth.PasswordReset{}, err
	}
	return reset, nil
}

func (r *passwordResetRepositoryImpl) MarkUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE password_resets SET used_at = $1
		WHERE token_hash = $2 AND used_at IS NULL
	`, usedAt, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrResetTokenInvalid
	}
	return nil
}

func (r *passwordResetRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < $1 OR used_at IS NOT NULL`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
