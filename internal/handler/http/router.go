package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Staff      StaffHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Dashboard  DashboardHandler
	Stream     StreamHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
		// load balancer heartbeats
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/"
		},
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password", h.Auth.ResetPassword)
			r.Get("/login/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			// Token optional: anonymous callers get an anonymous session
			r.With(jwtauth.Verifier(JWTService.JWTAuth())).Get("/session", h.Auth.Session)
		})

		// Stream endpoints authenticate with the short-lived ?token= instead
		r.Route("/stream", func(r chi.Router) {
			r.Get("/leaves", h.Stream.Leaves)
			r.Get("/attendance", h.Stream.Attendance)
			r.Get("/profile", h.Stream.Profile)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/stream-token", h.Auth.StreamToken)
			r.With(middleware.RequirePermission(user.PermissionProfileViewOwn)).Get("/me", h.Staff.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", h.Attendance.MarkPresent)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.ListByDate)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/my", h.Leave.GetMyRequests)
				r.Delete("/{id}", h.Leave.DeleteRequest)

				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/{id}", h.Leave.GetRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/decision", h.Leave.DecideRequest)
			})

			// Admin only
			r.Route("/staff", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.With(middleware.RequirePermission(user.PermissionStaffViewAll)).Get("/", h.Staff.List)
				r.With(middleware.RequirePermission(user.PermissionStaffManage)).Post("/", h.Staff.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionStaffViewAll)).Get("/", h.Staff.Get)
					r.With(middleware.RequirePermission(user.PermissionBalanceManage)).Put("/balances", h.Staff.UpdateBalances)
					r.With(middleware.RequirePermission(user.PermissionStaffManage)).Delete("/", h.Staff.Delete)
					r.With(middleware.RequirePermission(user.PermissionDashboardView)).Get("/history", h.Dashboard.GetStaffHistory)
				})
			})

			r.With(middleware.RequirePermission(user.PermissionDashboardView)).Get("/dashboard", h.Dashboard.GetOverview)
		})
	})
	return r
}
