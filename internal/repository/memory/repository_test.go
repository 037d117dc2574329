package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_PutOverwritesSameDay(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(NewDB())

	first := attendance.Record{UserID: "u1", Date: "2024-03-01", Status: attendance.StatusPresent,
		Location: &utils.Coordinates{Latitude: 1, Longitude: 1}, Timestamp: time.Now()}
	second := first
	second.Location = &utils.Coordinates{Latitude: 2, Longitude: 2}

	_, err := repo.Put(ctx, first)
	require.NoError(t, err)
	_, err = repo.Put(ctx, second)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "u1", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Location.Latitude)

	all, err := repo.ListByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAttendanceRepository_UpdateStatusMissing(t *testing.T) {
	repo := NewAttendanceRepository(NewDB())
	err := repo.UpdateStatus(context.Background(), "u1", "2024-03-01", attendance.StatusOnLeave)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListByUserRange(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(NewDB())
	for _, d := range []string{"2024-02-28", "2024-03-01", "2024-03-05"} {
		_, err := repo.Put(ctx, attendance.Record{UserID: "u1", Date: d, Status: attendance.StatusPresent})
		require.NoError(t, err)
	}
	_, err := repo.Put(ctx, attendance.Record{UserID: "u2", Date: "2024-03-01", Status: attendance.StatusPresent})
	require.NoError(t, err)

	got, err := repo.ListByUser(ctx, "u1", "2024-02-28", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-01", got[0].Date)
	assert.Equal(t, "2024-02-28", got[1].Date)
}

func TestLeaveRequestRepository_UpdateStatusOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository(NewDB())

	created, err := repo.Create(ctx, leave.LeaveRequest{UserID: "u1", Type: leave.TypeCasual, Status: leave.StatusPending})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, leave.StatusApproved, "admin", time.Now()))
	err = repo.UpdateStatus(ctx, created.ID, leave.StatusRejected, "admin", time.Now())
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.Equal(t, "admin", *got.DecidedBy)
}

func TestLeaveRequestRepository_ListNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository(NewDB())
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, leave.LeaveRequest{
			ID: string(rune('a' + i)), UserID: "u1", Status: leave.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	got, err := repo.List(ctx, leave.LeaveRequestFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestLeaveRequestRepository_ListApprovedCovering(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaveRequestRepository(NewDB())
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	duration := "2 hours"

	_, err := repo.Create(ctx, leave.LeaveRequest{ID: "covering", Type: leave.TypeSick, Status: leave.StatusApproved, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	_, err = repo.Create(ctx, leave.LeaveRequest{ID: "pending", Type: leave.TypeSick, Status: leave.StatusPending, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	_, err = repo.Create(ctx, leave.LeaveRequest{ID: "permission", Type: leave.TypePermission, Status: leave.StatusApproved, Duration: &duration})
	require.NoError(t, err)

	got, err := repo.ListApprovedCovering(ctx, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "covering", got[0].ID)
}

func TestStaffRepository_SearchAndBalances(t *testing.T) {
	ctx := context.Background()
	repo := NewStaffRepository(NewDB())
	staffRole := user.RoleStaff

	_, err := repo.Put(ctx, staff.StaffProfile{ID: "1", Name: "Anita Rao", Email: "anita@college.edu", Role: user.RoleStaff, LeaveBalances: leave.DefaultBalances()})
	require.NoError(t, err)
	_, err = repo.Put(ctx, staff.StaffProfile{ID: "2", Name: "Bala Krishna", Email: "bala@college.edu", Role: user.RoleStaff})
	require.NoError(t, err)
	_, err = repo.Put(ctx, staff.StaffProfile{ID: "3", Name: "Admin", Email: "admin@college.edu", Role: user.RoleAdmin})
	require.NoError(t, err)

	got, err := repo.List(ctx, staff.StaffFilter{Role: &staffRole, Search: "ANITA"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	// returned maps must not alias the stored ones
	got[0].LeaveBalances[leave.TypeCasual] = 0
	stored, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 12, stored.LeaveBalances[leave.TypeCasual])

	require.NoError(t, repo.UpdateBalances(ctx, "2", leave.Balances{leave.TypeCasual: 3}))
	stored, err = repo.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.LeaveBalances.Get(leave.TypeCasual))
	assert.Equal(t, 0, stored.LeaveBalances.Get(leave.TypeSick))

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), staff.ErrStaffNotFound)
}

func TestRefreshTokenRepository_RevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository(NewDB())

	require.NoError(t, repo.CreateRefreshToken(ctx, "u1", "token", time.Now().Add(time.Hour).Unix(), auth.SessionTrackingRequest{}))
	revoked, err := repo.IsRefreshTokenRevoked(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "token"))
	require.NoError(t, repo.RevokeRefreshToken(ctx, "token"))
	require.NoError(t, repo.RevokeRefreshToken(ctx, "unknown"))

	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token")
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := repo.DeleteExpiredRefreshTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
