package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hrcrm-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/redis"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/leave"
	officeLocationService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/officelocation"
	reportService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/report"
	salaryService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/salary"
	shiftService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/shift"
	teamService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/team"
	userService "github.com/cmlabs-hris/hrcrm-backend-go/internal/service/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.MigrateOnBoot {
		if err := database.RunMigrations(db); err != nil {
			return err
		}
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("error connecting to redis: %w", err)
	}
	defer redisClient.Close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, redisClient)
	if err != nil {
		return fmt.Errorf("error initializing jwt: %w", err)
	}

	var (
		fileStorage storage.FileStorage
		uploadsDir  string
	)
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		uploadsDir = cfg.Storage.BasePath
	case "s3":
		fileStorage, err = storage.NewS3Storage(ctx, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Endpoint)
		if err != nil {
			return fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage, cfg.Storage.SignedURLExpiry)

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db, loc)
	shiftRepo := postgresql.NewShiftRepository(db)
	officeLocationRepo := postgresql.NewOfficeLocationRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	transactor := postgresql.NewTransactor(db)

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, officeLocationRepo, shiftRepo, transactor, fileService, loc, cfg.Storage.SignedURLExpiry)
	shiftSvc := shiftService.NewShiftService(shiftRepo, loc)
	officeLocationSvc := officeLocationService.NewOfficeLocationService(officeLocationRepo, cfg.Attendance.DefaultRadiusMeters)
	salarySvc := salaryService.NewSalaryService(salaryRepo, attendanceRepo, userRepo, loc)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, userRepo, transactor)
	teamSvc := teamService.NewTeamService(teamRepo, userRepo)
	userSvc := userService.NewUserService(userRepo)
	reportSvc := reportService.NewReportService(salaryRepo, attendanceRepo, loc)

	router := appHTTP.NewRouter(logger, appHTTP.RouterOptions{
		App:                cfg.App,
		JWTService:         JWTService,
		RateLimiter:        redisClient,
		RateLimitPerMinute: cfg.Attendance.RateLimitPerMinute,
		UploadsDir:         uploadsDir,
	}, appHTTP.Handlers{
		Auth:           appHTTP.NewAuthHandler(JWTService, authSvc),
		Attendance:     appHTTP.NewAttendanceHandler(attendanceSvc),
		Shift:          appHTTP.NewShiftHandler(shiftSvc),
		OfficeLocation: appHTTP.NewOfficeLocationHandler(officeLocationSvc),
		Salary:         appHTTP.NewSalaryHandler(salarySvc),
		Leave:          appHTTP.NewLeaveHandler(leaveSvc),
		Report:         appHTTP.NewReportHandler(reportSvc),
		Team:           appHTTP.NewTeamHandler(teamSvc),
		User:           appHTTP.NewUserHandler(userSvc),
	})

	scheduler := cron.NewSchedulerWithContext(ctx)
	cron.NewAttendanceJobs(attendanceRepo, loc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
