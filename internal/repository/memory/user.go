package memory

import (
	"context"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) findByEmail(email string) (user.User, bool) {
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return user.User{}, false
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.findByEmail(newUser.Email); exists {
		return user.User{}, user.ErrUserEmailExists
	}
	if newUser.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return user.User{}, err
		}
		newUser.ID = id.String()
	}
	now := time.Now().UTC()
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.db.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.findByEmail(email); ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.findByEmail(email)
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	for _, other := range r.db.users {
		if other.ID != u.ID && other.GoogleID != nil && *other.GoogleID == googleID {
			return user.User{}, user.ErrGoogleIDExists
		}
	}
	u.GoogleID = &googleID
	u.UpdatedAt = time.Now().UTC()
	r.db.users[u.ID] = u
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.db.users[userID] = u
	return nil
}
