package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/config"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/leave"
	staffService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/staff"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestPassword   = "password123"
)

var campus = config.GeofenceConfig{
	Latitude:     17.74078811356036,
	Longitude:    83.25407478363284,
	RadiusMeters: 200,
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

type nopMailer struct{}

func (nopMailer) SendPasswordReset(to, resetLink, expiresAt string) error { return nil }

type testApp struct {
	router    *chi.Mux
	staff     staff.StaffService
	leaveRepo leave.LeaveRequestRepository
	loc       *time.Location
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	loc := time.FixedZone("IST", 19800)
	db := memory.NewDB()
	hub := sse.NewHub()
	transactor := memory.NewTransactor(db)

	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)
	require.NoError(t, err)

	userRepo := memory.NewUserRepository(db)
	staffRepo := memory.NewStaffRepository(db)
	attendanceRepo := memory.NewAttendanceRepository(db)
	leaveRepo := memory.NewLeaveRequestRepository(db)
	resetRepo := memory.NewPasswordResetRepository(db)

	identity := authService.NewIdentityProvider(userRepo, resetRepo, nopMailer{}, "http://localhost:5173/reset-password")
	authSvc := authService.NewAuthService(transactor, identity, userRepo, staffRepo, jwtSvc, memory.NewRefreshTokenRepository(db), resetRepo)
	staffSvc := staffService.NewStaffService(transactor, identity, staffRepo, hub)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveRepo, staffRepo, attendanceRepo, hub, loc)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, staffRepo, leaveRepo, hub, campus, loc)
	dashboardSvc := dashboardService.NewDashboardService(staffRepo, attendanceRepo, leaveRepo, loc)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(logger, []string{"http://localhost:5173"}, jwtSvc, Handlers{
		Auth:       NewAuthHandler(jwtSvc, authSvc, nil, "http://localhost:5173", false),
		Staff:      NewStaffHandler(staffSvc),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Leave:      NewLeaveHandler(leaveSvc),
		Dashboard:  NewDashboardHandler(dashboardSvc),
		Stream:     NewStreamHandler(jwtSvc, hub, leaveSvc, attendanceSvc, staffSvc),
	})

	return &testApp{router: router, staff: staffSvc, leaveRepo: leaveRepo, loc: loc}
}

func (a *testApp) provision(t *testing.T, email string, role user.Role) staff.StaffResponse {
	t.Helper()
	created, err := a.staff.CreateStaffAccount(context.Background(), staff.CreateStaffRequest{
		Name:           "Test " + string(role),
		Email:          email,
		Password:       handlerTestPassword,
		Designation:    "Assistant Professor",
		EmploymentType: staff.EmploymentTeaching,
		Role:           role,
	})
	require.NoError(t, err)
	return created
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": handlerTestPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.AccessToken
}

func (a *testApp) today() string {
	return time.Now().In(a.loc).Format("2006-01-02")
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)

	w, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "faculty@college.edu",
		"password": handlerTestPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"role":"staff"`)
	assert.NotContains(t, string(env.Data), "refresh_token")

	var refresh *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	assert.NotEmpty(t, refresh.Value)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)

	tests := []struct {
		name         string
		body         map[string]string
		expectedCode int
	}{
		{name: "wrong password", body: map[string]string{"email": "faculty@college.edu", "password": "wrong-pass"}, expectedCode: http.StatusUnauthorized},
		{name: "unknown email", body: map[string]string{"email": "nobody@college.edu", "password": "wrong-pass"}, expectedCode: http.StatusUnauthorized},
		{name: "missing email", body: map[string]string{"password": "wrong-pass"}, expectedCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.expectedCode, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestLogout_WithoutSessionSucceeds(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestSession_AnonymousAndPopulated(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)

	w, env := app.do(t, http.MethodGet, "/api/v1/auth/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"state":"anonymous"`)

	token := app.login(t, "faculty@college.edu")
	w, env = app.do(t, http.MethodGet, "/api/v1/auth/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"state":"populated"`)
	assert.Contains(t, string(env.Data), "faculty@college.edu")
}

func TestRoutes_Authorization(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)
	app.provision(t, "admin@college.edu", user.RoleAdmin)
	staffToken := app.login(t, "faculty@college.edu")
	adminToken := app.login(t, "admin@college.edu")

	tests := []struct {
		name         string
		method       string
		path         string
		token        string
		expectedCode int
	}{
		{name: "profile without token", method: http.MethodGet, path: "/api/v1/me", expectedCode: http.StatusUnauthorized},
		{name: "profile with token", method: http.MethodGet, path: "/api/v1/me", token: staffToken, expectedCode: http.StatusOK},
		{name: "staff cannot list directory", method: http.MethodGet, path: "/api/v1/staff", token: staffToken, expectedCode: http.StatusForbidden},
		{name: "staff cannot open dashboard", method: http.MethodGet, path: "/api/v1/dashboard", token: staffToken, expectedCode: http.StatusForbidden},
		{name: "staff cannot list all leaves", method: http.MethodGet, path: "/api/v1/leaves", token: staffToken, expectedCode: http.StatusForbidden},
		{name: "staff reads own leaves", method: http.MethodGet, path: "/api/v1/leaves/my", token: staffToken, expectedCode: http.StatusOK},
		{name: "admin lists directory", method: http.MethodGet, path: "/api/v1/staff", token: adminToken, expectedCode: http.StatusOK},
		{name: "admin opens dashboard", method: http.MethodGet, path: "/api/v1/dashboard?filter=absent", token: adminToken, expectedCode: http.StatusOK},
		{name: "admin bad dashboard filter", method: http.MethodGet, path: "/api/v1/dashboard?filter=late", token: adminToken, expectedCode: http.StatusUnprocessableEntity},
		{name: "admin lists attendance", method: http.MethodGet, path: "/api/v1/attendance", token: adminToken, expectedCode: http.StatusOK},
		{name: "admin malformed leave id", method: http.MethodGet, path: "/api/v1/leaves/not-an-id", token: adminToken, expectedCode: http.StatusBadRequest},
		{name: "admin unknown leave id", method: http.MethodGet, path: "/api/v1/leaves/01890a5d-ac96-774b-bcce-b302099a8057", token: adminToken, expectedCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := app.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())
		})
	}
}

func TestMarkPresent_OutsideGeofence(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)
	token := app.login(t, "faculty@college.edu")

	w, env := app.do(t, http.MethodPost, "/api/v1/attendance", token, map[string]float64{
		"latitude":  campus.Latitude + 0.009,
		"longitude": campus.Longitude,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "OUTSIDE_GEOFENCE", env.Error.Code)
	assert.True(t, strings.HasPrefix(env.Error.Message, "Too far: You are "))
	assert.NotEmpty(t, env.Error.Details["distance_meters"])
}

func TestMarkPresent_AtCampusThenAlreadyMarked(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)
	token := app.login(t, "faculty@college.edu")
	body := map[string]float64{"latitude": campus.Latitude, "longitude": campus.Longitude}

	w, _ := app.do(t, http.MethodPost, "/api/v1/attendance", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = app.do(t, http.MethodPost, "/api/v1/attendance", token, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env := app.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"Present"`)
}

func TestMarkPresent_GeolocationUnavailable(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)
	token := app.login(t, "faculty@college.edu")

	w, _ := app.do(t, http.MethodPost, "/api/v1/attendance", token, map[string]string{
		"geolocation_error": "permission denied",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveWorkflow_SubmitDecideDelete(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)
	app.provision(t, "admin@college.edu", user.RoleAdmin)
	staffToken := app.login(t, "faculty@college.edu")
	adminToken := app.login(t, "admin@college.edu")

	today := app.today()
	tomorrow := time.Now().In(app.loc).AddDate(0, 0, 1).Format("2006-01-02")

	w, env := app.do(t, http.MethodPost, "/api/v1/leaves", staffToken, map[string]string{
		"type":       "CL",
		"start_date": today,
		"end_date":   tomorrow,
		"reason":     "Family function",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var submitted leave.LeaveRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, leave.StatusPending, submitted.Status)
	decisionPath := "/api/v1/leaves/" + submitted.ID + "/decision"

	// unconfirmed decisions are refused
	w, _ = app.do(t, http.MethodPost, decisionPath, adminToken, map[string]interface{}{"decision": "Approved"})
	require.Equal(t, http.StatusPreconditionRequired, w.Code)

	// staff cannot decide
	w, _ = app.do(t, http.MethodPost, decisionPath, staffToken, map[string]interface{}{"decision": "Approved", "confirmed": true})
	require.Equal(t, http.StatusForbidden, w.Code)

	w, env = app.do(t, http.MethodPost, decisionPath, adminToken, map[string]interface{}{"decision": "Approved", "confirmed": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result leave.DecisionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotNil(t, result.Cost)
	assert.Equal(t, 2, *result.Cost)
	require.NotNil(t, result.RemainingBalance)
	assert.Equal(t, 10, *result.RemainingBalance)

	w, _ = app.do(t, http.MethodPost, decisionPath, adminToken, map[string]interface{}{"decision": "Rejected", "confirmed": true})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = app.do(t, http.MethodGet, "/api/v1/me", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me staff.StaffResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, 10, me.LeaveBalances[leave.TypeCasual])

	deletePath := "/api/v1/leaves/" + submitted.ID
	w, _ = app.do(t, http.MethodDelete, deletePath, adminToken, map[string]bool{"confirmed": true, "acknowledge_no_refund": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(t, http.MethodDelete, deletePath, staffToken, map[string]bool{"confirmed": true})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = app.do(t, http.MethodDelete, deletePath, staffToken, map[string]bool{"confirmed": true, "acknowledge_no_refund": true})
	require.Equal(t, http.StatusOK, w.Code)

	// balance stays deducted
	_, env = app.do(t, http.MethodGet, "/api/v1/me", staffToken, nil)
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, 10, me.LeaveBalances[leave.TypeCasual])
}

func TestDecide_UnknownLeaveTypeIsMultiStatus(t *testing.T) {
	app := newTestApp(t)
	requester := app.provision(t, "faculty@college.edu", user.RoleStaff)
	app.provision(t, "admin@college.edu", user.RoleAdmin)
	adminToken := app.login(t, "admin@college.edu")

	duration := "2 hours"
	legacy, err := app.leaveRepo.Create(context.Background(), leave.LeaveRequest{
		UserID:   requester.ID,
		UserName: requester.Name,
		Type:     leave.Type("Sabbatical"),
		Duration: &duration,
		Reason:   "Imported from the previous register",
		Status:   leave.StatusPending,
	})
	require.NoError(t, err)

	w, env := app.do(t, http.MethodPost, "/api/v1/leaves/"+legacy.ID+"/decision", adminToken, map[string]interface{}{
		"decision":  "Approved",
		"confirmed": true,
	})
	require.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())

	var result leave.DecisionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, leave.StepSucceeded, result.Status.State)
	assert.Equal(t, leave.StepFailed, result.Balance.State)
	assert.Equal(t, leave.StatusApproved, result.Request.Status)
}

func TestStaffAdministration(t *testing.T) {
	app := newTestApp(t)
	admin := app.provision(t, "admin@college.edu", user.RoleAdmin)
	adminToken := app.login(t, "admin@college.edu")

	w, env := app.do(t, http.MethodPost, "/api/v1/staff", adminToken, map[string]interface{}{
		"name":        "Ravi Kumar",
		"email":       "ravi@college.edu",
		"password":    "initial1",
		"designation": "Lecturer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created staff.StaffResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, user.RoleStaff, created.Role)

	w, _ = app.do(t, http.MethodPost, "/api/v1/staff", adminToken, map[string]interface{}{
		"name":        "Ravi Again",
		"email":       "ravi@college.edu",
		"password":    "initial1",
		"designation": "Lecturer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = app.do(t, http.MethodPut, "/api/v1/staff/"+created.ID+"/balances", adminToken, map[string]interface{}{
		"leave_balances": map[string]int{"CL": 5, "SL": 4, "EL": 3, "OD": 2, "Permission": 1},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"CL":5`)

	w, _ = app.do(t, http.MethodGet, "/api/v1/staff/"+created.ID+"/history", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodDelete, "/api/v1/staff/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w, _ = app.do(t, http.MethodDelete, "/api/v1/staff/"+admin.ID, adminToken, map[string]bool{"confirmed": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(t, http.MethodDelete, "/api/v1/staff/"+created.ID, adminToken, map[string]bool{"confirmed": true})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodGet, "/api/v1/staff/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStream_ProfileSnapshot(t *testing.T) {
	app := newTestApp(t)
	app.provision(t, "faculty@college.edu", user.RoleStaff)
	token := app.login(t, "faculty@college.edu")

	w, _ := app.do(t, http.MethodGet, "/api/v1/stream/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// an access token is not a stream token
	w, _ = app.do(t, http.MethodGet, "/api/v1/stream/profile?token="+token, "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := app.do(t, http.MethodGet, "/api/v1/auth/stream-token", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var streamToken struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &streamToken))

	server := httptest.NewServer(app.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/stream/profile?token="+streamToken.Token, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	eventLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: snapshot\n", eventLine)
	dataLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, dataLine, "faculty@college.edu")
}
