package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/email"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenLifetime = time.Hour

// IdentityProviderImpl keeps credentials in the user store and delivers reset
// links by email.
type IdentityProviderImpl struct {
	users    user.UserRepository
	resets   auth.PasswordResetRepository
	mailer   email.EmailService
	resetURL string
	now      func() time.Time
}

func NewIdentityProvider(users user.UserRepository, resets auth.PasswordResetRepository, mailer email.EmailService, resetURL string) *IdentityProviderImpl {
	return &IdentityProviderImpl{
		users:    users,
		resets:   resets,
		mailer:   mailer,
		resetURL: resetURL,
		now:      time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Authenticate implements auth.IdentityProvider.
func (p *IdentityProviderImpl) Authenticate(ctx context.Context, emailAddr, password string) (user.User, error) {
	principal, err := p.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, auth.ErrInvalidCredentials
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if principal.PasswordHash == nil {
		return user.User{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*principal.PasswordHash), []byte(password)); err != nil {
		return user.User{}, auth.ErrInvalidCredentials
	}
	return principal, nil
}

// CreatePrincipal implements auth.IdentityProvider.
func (p *IdentityProviderImpl) CreatePrincipal(ctx context.Context, emailAddr, password string) (user.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := p.users.Create(ctx, user.User{
		Email:        strings.ToLower(strings.TrimSpace(emailAddr)),
		PasswordHash: &hashed,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.User{}, auth.ErrEmailAlreadyRegistered
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// SendResetMessage implements auth.IdentityProvider.
func (p *IdentityProviderImpl) SendResetMessage(ctx context.Context, emailAddr string) error {
	principal, err := p.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Info("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	expiresAt := p.now().Add(resetTokenLifetime)

	err = p.resets.Create(ctx, auth.PasswordReset{
		UserID:    principal.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	link := p.resetURL + "?token=" + url.QueryEscape(token)
	if err := p.mailer.SendPasswordReset(principal.Email, link, expiresAt.Format("02 Jan 2006 15:04 MST")); err != nil {
		slog.Error("Failed to send password reset email", "error", err)
		return fmt.Errorf("%w: %v", auth.ErrResetDeliveryFailed, err)
	}
	return nil
}

// ConfirmReset implements auth.IdentityProvider.
func (p *IdentityProviderImpl) ConfirmReset(ctx context.Context, token, newPassword string) error {
	tokenHash := hashResetToken(token)

	reset, err := p.resets.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	if reset.UsedAt != nil || !reset.ExpiresAt.After(p.now()) {
		return auth.ErrResetTokenInvalid
	}

	// Consume first so a token can't be replayed if the password write races.
	if err := p.resets.MarkUsed(ctx, tokenHash, p.now()); err != nil {
		return err
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := p.users.UpdatePassword(ctx, reset.UserID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
