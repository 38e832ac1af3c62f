package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the deployment settings the router needs.
type RouterConfig struct {
	Env            string
	AllowedOrigins []string
	UploadDir      string // served under /uploads when set
	LogLevel       slog.Level
}

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Attendance   AttendanceHandler
	Dashboard    DashboardHandler
	Visit        VisitHandler
	Customer     CustomerHandler
	Office       OfficeHandler
	Notification NotificationHandler
	Upload       UploadHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fieldforce"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	ja := JWTService.JWTAuth()

	r.Route("/api", func(r chi.Router) {
		r.Route("/notifications", func(r chi.Router) {
			// EventSource cannot set headers, so the stream also accepts ?jwt=
			r.With(
				jwtauth.Verify(ja, jwtauth.TokenFromHeader, jwtauth.TokenFromQuery),
				middleware.AuthRequired,
			).Get("/stream", h.Notification.Stream)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(ja))
				r.Use(middleware.AuthRequired)
				r.Get("/", h.Notification.List)
				r.Put("/{id}/read", h.Notification.MarkAsRead)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceCreate))
					r.Post("/checkin", h.Attendance.CheckIn)
					r.Post("/checkout", h.Attendance.CheckOut)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/history", h.Attendance.History)
					r.Get("/today", h.Attendance.Today)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/all", h.Attendance.List)
				r.With(middleware.RequirePermission(user.PermissionStatsView)).Get("/stats", h.Dashboard.GetDailyStats)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceExport))
					r.Get("/export-csv", h.Attendance.ExportCSV)
					r.Get("/export-xlsx", h.Attendance.ExportXLSX)
				})
			})

			r.Route("/visits", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionVisitCreate)).Post("/", h.Visit.Create)
				r.With(middleware.RequirePermission(user.PermissionVisitViewOwn)).Get("/", h.Visit.List)

				r.With(middleware.RequirePermission(user.PermissionVisitApprove)).Post("/{id}/approve", h.Visit.Approve)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionVisitExport))
					r.Get("/export", h.Visit.ExportCSV)
					r.Get("/export-pdf", h.Visit.ExportPDF)
				})
			})

			r.Get("/customers", h.Customer.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionOfficeManageSchedule))
				r.Get("/offices/{id}/schedule", h.Office.GetSchedule)
				r.Put("/offices/{id}/schedule", h.Office.UpdateSchedule)
			})

			r.Post("/uploads/photo", h.Upload.UploadPhoto)
		})
	})
	return r
}
