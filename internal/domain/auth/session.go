package auth

import (
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
)

type SessionState string

const (
	SessionLoading   SessionState = "loading"
	SessionPopulated SessionState = "populated"
	SessionAnonymous SessionState = "anonymous"
)

// Session is the resolved identity of a caller: the principal merged with its
// directory profile. A session leaves SessionLoading exactly once.
type Session struct {
	State     SessionState
	Principal *user.User
	Profile   *staff.StaffProfile
}

// NewSession returns a session that has not been resolved yet.
func NewSession() *Session {
	return &Session{State: SessionLoading}
}

// Populate resolves the session to a signed-in caller. It is a no-op once resolved.
func (s *Session) Populate(principal user.User, profile staff.StaffProfile) {
	if s.State != SessionLoading {
		return
	}
	s.State = SessionPopulated
	s.Principal = &principal
	s.Profile = &profile
}

// Clear resolves the session to anonymous. It is a no-op once resolved.
func (s *Session) Clear() {
	if s.State != SessionLoading {
		return
	}
	s.State = SessionAnonymous
}

func (s *Session) Role() user.Role {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Role
}
