package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// APP_TIMEZONE must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/config"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/faculty-portal-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/redis"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/leave"
	staffService "github.com/cmlabs-hris/faculty-portal-backend-go/internal/service/staff"
	"github.com/go-chi/httplog/v3"
)

type stores struct {
	transactor   database.Transactor
	users        user.UserRepository
	staff        staff.StaffRepository
	attendance   attendance.AttendanceRepository
	leaves       leave.LeaveRequestRepository
	refreshToken auth.RefreshTokenRepository
	resets       auth.PasswordResetRepository
	close        func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Database.Driver {
	case "memory":
		slog.Warn("Using in-memory stores, data is lost on restart")
		db := memory.NewDB()
		return &stores{
			transactor:   memory.NewTransactor(db),
			users:        memory.NewUserRepository(db),
			staff:        memory.NewStaffRepository(db),
			attendance:   memory.NewAttendanceRepository(db),
			leaves:       memory.NewLeaveRequestRepository(db),
			refreshToken: memory.NewRefreshTokenRepository(db),
			resets:       memory.NewPasswordResetRepository(db),
			close:        func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return &stores{
			transactor:   postgresql.NewTransactor(db),
			users:        postgresql.NewUserRepository(db),
			staff:        postgresql.NewStaffRepository(db),
			attendance:   postgresql.NewAttendanceRepository(db),
			leaves:       postgresql.NewLeaveRequestRepository(db),
			refreshToken: postgresql.NewJWTRepository(db),
			resets:       postgresql.NewPasswordResetRepository(db),
			close:        db.Close,
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "faculty-portal"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open stores", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	// Change notices fan out through Redis when several instances serve streams
	var broker sse.Broker = sse.NewHub()
	if cfg.Redis.URL != "" {
		redisClient, err := redis.NewClient(cfg.Redis.URL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisBroker := sse.NewRedisBroker(redisClient.GetClient(), cfg.Redis.Channel)
		go func() {
			if err := redisBroker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Redis change relay stopped", "error", err)
			}
		}()
		broker = redisBroker
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())
	if err != nil {
		slog.Error("Invalid JWT configuration", "error", err)
		os.Exit(1)
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	emailService, err := email.NewEmailService(cfg.Email)
	if err != nil {
		slog.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}

	identity := serviceAuth.NewIdentityProvider(st.users, st.resets, emailService, cfg.Email.ResetURL)
	authService := serviceAuth.NewAuthService(st.transactor, identity, st.users, st.staff, JWTService, st.refreshToken, st.resets)
	staffSvc := staffService.NewStaffService(st.transactor, identity, st.staff, broker)
	leaveSvc := leaveService.NewLeaveService(st.transactor, st.leaves, st.staff, st.attendance, broker, cfg.App.Location)
	attendanceSvc := attendanceService.NewAttendanceService(st.attendance, st.staff, st.leaves, broker, cfg.Geofence, cfg.App.Location)
	dashboardSvc := dashboardService.NewDashboardService(st.staff, st.attendance, st.leaves, cfg.App.Location)

	if err := staffService.BootstrapAdmin(ctx, staffSvc, cfg.Bootstrap); err != nil {
		slog.Error("Failed to bootstrap admin account", "error", err)
		os.Exit(1)
	}

	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(authService).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService, googleService, cfg.App.FrontendURL, cfg.IsProduction()),
		Staff:      appHTTP.NewStaffHandler(staffSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
		Stream:     appHTTP.NewStreamHandler(JWTService, broker, leaveSvc, attendanceSvc, staffSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Database.Driver, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
