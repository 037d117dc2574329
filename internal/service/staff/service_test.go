package staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/config"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIdentity creates principals in memory and can be told to fail.
type stubIdentity struct {
	auth.IdentityProvider
	users user.UserRepository
	err   error
}

func (s *stubIdentity) CreatePrincipal(ctx context.Context, email, password string) (user.User, error) {
	if s.err != nil {
		return user.User{}, s.err
	}
	u, err := s.users.Create(ctx, user.User{Email: email})
	if errors.Is(err, user.ErrUserEmailExists) {
		return user.User{}, auth.ErrEmailAlreadyRegistered
	}
	return u, err
}

// failingStaffRepo rejects every profile write.
type failingStaffRepo struct {
	staff.StaffRepository
}

func (failingStaffRepo) Put(ctx context.Context, profile staff.StaffProfile) (staff.StaffProfile, error) {
	return staff.StaffProfile{}, errors.New("permission denied")
}

type staffFixture struct {
	svc       staff.StaffService
	hub       *sse.Hub
	users     user.UserRepository
	staffRepo staff.StaffRepository
	identity  *stubIdentity
}

func newStaffFixture(t *testing.T) *staffFixture {
	t.Helper()
	db := memory.NewDB()
	f := &staffFixture{
		hub:       sse.NewHub(),
		users:     memory.NewUserRepository(db),
		staffRepo: memory.NewStaffRepository(db),
	}
	f.identity = &stubIdentity{users: f.users}
	f.svc = NewStaffService(memory.NewTransactor(db), f.identity, f.staffRepo, f.hub)
	return f
}

func validCreateRequest() staff.CreateStaffRequest {
	return staff.CreateStaffRequest{
		Name:        "Anita Rao",
		Email:       "anita@college.edu",
		Password:    "secret123",
		Designation: "Assistant Professor",
	}
}

func TestCreateStaffAccount(t *testing.T) {
	f := newStaffFixture(t)
	req := validCreateRequest()
	require.NoError(t, req.Validate())

	resp, err := f.svc.CreateStaffAccount(context.Background(), req)
	require.NoError(t, err)

	principal, err := f.users.GetByEmail(context.Background(), "anita@college.edu")
	require.NoError(t, err)
	assert.Equal(t, principal.ID, resp.ID)
	assert.Equal(t, user.RoleStaff, resp.Role)
	assert.Equal(t, staff.EmploymentTeaching, resp.EmploymentType)
	assert.Equal(t, leave.DefaultBalances(), resp.LeaveBalances)
}

func TestCreateStaffAccount_ExplicitBalances(t *testing.T) {
	f := newStaffFixture(t)
	req := validCreateRequest()
	req.LeaveBalances = leave.Balances{leave.TypeCasual: 8, leave.TypeEarned: 3}
	require.NoError(t, req.Validate())

	resp, err := f.svc.CreateStaffAccount(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, leave.Balances{
		leave.TypeCasual:     8,
		leave.TypeSick:       0,
		leave.TypeEarned:     3,
		leave.TypeOnDuty:     0,
		leave.TypePermission: 0,
	}, resp.LeaveBalances)
}

func TestCreateStaffAccount_EmailTaken(t *testing.T) {
	f := newStaffFixture(t)
	req := validCreateRequest()
	require.NoError(t, req.Validate())

	_, err := f.svc.CreateStaffAccount(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.CreateStaffAccount(context.Background(), req)
	assert.ErrorIs(t, err, staff.ErrEmailAlreadyRegistered)
}

func TestCreateStaffAccount_ProfileWriteFailureLeavesPrincipal(t *testing.T) {
	db := memory.NewDB()
	users := memory.NewUserRepository(db)
	svc := NewStaffService(memory.NewTransactor(db), &stubIdentity{users: users}, failingStaffRepo{memory.NewStaffRepository(db)}, sse.NewHub())
	req := validCreateRequest()
	require.NoError(t, req.Validate())

	_, err := svc.CreateStaffAccount(context.Background(), req)
	assert.ErrorIs(t, err, staff.ErrProfileWriteFailed)

	// the identity account is not rolled back
	_, err = users.GetByEmail(context.Background(), req.Email)
	assert.NoError(t, err)
}

func TestUpdateBalances(t *testing.T) {
	f := newStaffFixture(t)
	req := validCreateRequest()
	require.NoError(t, req.Validate())
	created, err := f.svc.CreateStaffAccount(context.Background(), req)
	require.NoError(t, err)

	events, cleanup := f.hub.Subscribe(sse.TopicStaff)
	defer cleanup()

	update := staff.UpdateBalancesRequest{LeaveBalances: leave.Balances{
		leave.TypeCasual: 1, leave.TypeSick: -2, leave.TypeEarned: 4, leave.TypeOnDuty: 0, leave.TypePermission: 2,
	}}
	require.NoError(t, update.Validate())

	resp, err := f.svc.UpdateBalances(context.Background(), created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, -2, resp.LeaveBalances[leave.TypeSick])

	stored, err := f.staffRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, update.LeaveBalances, stored.LeaveBalances)

	select {
	case ev := <-events:
		assert.Equal(t, created.ID, ev.Key)
	case <-time.After(time.Second):
		t.Fatal("expected change notice")
	}

	_, err = f.svc.UpdateBalances(context.Background(), "missing", update)
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
}

func TestDelete(t *testing.T) {
	f := newStaffFixture(t)
	req := validCreateRequest()
	require.NoError(t, req.Validate())
	created, err := f.svc.CreateStaffAccount(context.Background(), req)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, "admin", created.ID, staff.DeleteStaffRequest{}), staff.ErrConfirmationRequired)
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID, created.ID, staff.DeleteStaffRequest{Confirmed: true}), staff.ErrCannotDeleteSelf)

	require.NoError(t, f.svc.Delete(ctx, "admin", created.ID, staff.DeleteStaffRequest{Confirmed: true}))

	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)
	// the principal survives
	_, err = f.users.GetByID(ctx, created.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetMyProfile(ctx, created.ID)
	assert.ErrorIs(t, err, auth.ErrProfileMissing)
}

func TestList(t *testing.T) {
	f := newStaffFixture(t)
	ctx := context.Background()
	for _, r := range []staff.CreateStaffRequest{
		{Name: "Bala", Email: "bala@college.edu", Password: "secret123", Designation: "Lecturer"},
		{Name: "Anita", Email: "anita@college.edu", Password: "secret123", Designation: "Lecturer"},
		{Name: "Principal", Email: "principal@college.edu", Password: "secret123", Designation: "Head", Role: user.RoleAdmin},
	} {
		require.NoError(t, r.Validate())
		_, err := f.svc.CreateStaffAccount(ctx, r)
		require.NoError(t, err)
	}

	all, err := f.svc.List(ctx, staff.ListStaffRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Anita", all[0].Name)

	admins, err := f.svc.List(ctx, staff.ListStaffRequest{Role: string(user.RoleAdmin)})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "Principal", admins[0].Name)
}

func TestBootstrapAdmin(t *testing.T) {
	f := newStaffFixture(t)
	cfg := config.BootstrapConfig{AdminEmail: "admin@college.edu", AdminPassword: "secret123", AdminName: "Admin"}
	ctx := context.Background()

	require.NoError(t, BootstrapAdmin(ctx, f.svc, config.BootstrapConfig{}))
	require.NoError(t, BootstrapAdmin(ctx, f.svc, cfg))
	require.NoError(t, BootstrapAdmin(ctx, f.svc, cfg))

	admins, err := f.svc.List(ctx, staff.ListStaffRequest{Role: string(user.RoleAdmin)})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@college.edu", admins[0].Email)
}
