package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
)

// DB is a process-local store with the same semantics as the PostgreSQL
// repositories. Data does not survive a restart.
type DB struct {
	mu sync.RWMutex

	users         map[string]user.User
	staff         map[string]staff.StaffProfile
	attendance    map[attendanceKey]attendance.Record
	leaves        map[string]leave.LeaveRequest
	refreshTokens map[string]refreshToken
	resets        map[string]auth.PasswordReset

	// serializes WithinTransaction callers
	txMu sync.Mutex
}

type attendanceKey struct {
	userID string
	date   string
}

func NewDB() *DB {
	return &DB{
		users:         make(map[string]user.User),
		staff:         make(map[string]staff.StaffProfile),
		attendance:    make(map[attendanceKey]attendance.Record),
		leaves:        make(map[string]leave.LeaveRequest),
		refreshTokens: make(map[string]refreshToken),
		resets:        make(map[string]auth.PasswordReset),
	}
}

type transactor struct {
	db *DB
}

// NewTransactor returns a Transactor that runs units of work one at a time.
// Writes made before a failing step are not rolled back.
func NewTransactor(db *DB) database.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()
	return fn(ctx)
}
