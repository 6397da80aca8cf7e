package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/config"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const version = "v1.0.0"

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           AuthHandler
	Attendance     AttendanceHandler
	Shift          ShiftHandler
	OfficeLocation OfficeLocationHandler
	Salary         SalaryHandler
	Leave          LeaveHandler
	Report         ReportHandler
	Team           TeamHandler
	User           UserHandler
}

// RouterOptions carries the non-handler dependencies of the router.
type RouterOptions struct {
	App                config.AppConfig
	JWTService         jwt.Service
	RateLimiter        middleware.RateLimiter
	RateLimitPerMinute int

	// UploadsDir is served at /uploads when proof photos live on local disk.
	UploadsDir string
}

// NewLogger builds the JSON logger used for both application and request logs.
func NewLogger(app config.AppConfig, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(app.Env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrcrm-backend"),
		slog.String("version", version),
		slog.String("env", app.Env),
	)
}

func NewRouter(logger *slog.Logger, opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(opts.App.FrontendURL, ","),
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	checkLimit := middleware.RateLimitPerUser(opts.RateLimiter, "attendance", opts.RateLimitPerMinute, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(opts.JWTService))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.With(checkLimit, middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/check-in", h.Attendance.CheckIn)
				r.With(checkLimit, middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/check-out", h.Attendance.CheckOut)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/status", h.Attendance.Status)
					r.Get("/my", h.Attendance.GetMyAttendance)
					r.Get("/my/daily", h.Attendance.GetMyDailyHours)
					r.Get("/{id}/proof", h.Attendance.GetProofURL)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.Shift.List)
				r.Get("/{id}", h.Shift.Get)
				r.Get("/{id}/calendar.ics", h.Shift.Calendar)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftManage))
					r.Post("/", h.Shift.Create)
					r.Put("/{id}", h.Shift.Update)
					r.Delete("/{id}", h.Shift.Delete)
				})
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", h.Team.List)
				r.Get("/{id}", h.Team.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTeamManage))
					r.Post("/", h.Team.Create)
					r.Put("/{id}", h.Team.Update)
					r.Delete("/{id}", h.Team.Delete)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Get("/", h.User.List)
				r.Get("/{id}", h.User.Get)
				r.Put("/{id}", h.User.Update)
			})

			r.Route("/office-locations", func(r chi.Router) {
				r.Get("/{team_id}", h.OfficeLocation.Get)
				r.Post("/{team_id}/check", h.OfficeLocation.Check)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionOfficeLocationManage))
					r.Get("/", h.OfficeLocation.List)
					r.Put("/{team_id}", h.OfficeLocation.Upsert)
				})
			})

			r.Route("/salaries", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionSalaryViewOwn)).Get("/my", h.Salary.ListMy)
				// Ownership is checked by the service
				r.With(middleware.RequirePermission(user.PermissionSalaryViewOwn)).Get("/{id}", h.Salary.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryManage))
					r.Get("/", h.Salary.List)
					r.Put("/", h.Salary.Upsert)
					r.Get("/preview-hours", h.Salary.PreviewHours)
					r.Get("/statistics", h.Salary.Statistics)
					r.Delete("/{id}", h.Salary.Delete)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/my", h.Leave.GetMyRequests)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/balance", h.Leave.GetMyBalance)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Use(middleware.RequirePermission(user.PermissionReportsExport))
				r.Get("/salaries.{format}", h.Report.ExportSalaries)
				r.Get("/attendance.{format}", h.Report.ExportAttendance)
			})
		})
	})
	return r
}
