package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/attendance"
	customerService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/customer"
	dashboardService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
	notificationService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/notification"
	officeService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/office"
	visitService "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/visit"
)

type repositories struct {
	users         user.UserRepository
	offices       office.OfficeRepository
	customers     customer.CustomerRepository
	attendances   attendance.AttendanceRepository
	visits        visit.VisitRepository
	notifications notification.Repository
	tx            database.Transactor
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatal("Failed to initialize repositories: ", err)
	}
	defer repos.close()

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	loc := cfg.Location()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	notifService := notificationService.NewNotificationService(
		repos.notifications,
		repos.users,
		hub,
		loc,
		notificationService.Config{
			BatchSize:     cfg.Notification.BatchSize,
			FlushInterval: cfg.Notification.FlushInterval,
			WorkerCount:   cfg.Notification.WorkerCount,
			QueueSize:     cfg.Notification.QueueSize,
		},
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendances,
		repos.users,
		repos.offices,
		notifService,
		loc,
		time.Now,
	)
	visitSvc := visitService.NewVisitService(
		repos.visits,
		repos.customers,
		repos.attendances,
		repos.tx,
		config.VisitRadius,
		loc,
		time.Now,
	)
	dashboardSvc := dashboardService.NewDashboardService(
		repos.users,
		repos.offices,
		repos.attendances,
		repos.visits,
		loc,
		time.Now,
	)
	officeSvc := officeService.NewOfficeService(repos.offices)
	customerSvc := customerService.NewCustomerService(repos.customers)
	fileService := file.NewFileService(fileStorage, time.Now)

	uploadDir := ""
	if cfg.Storage.Type == "local" {
		uploadDir = cfg.Storage.BasePath
	}
	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.CORSOrigins,
			UploadDir:      uploadDir,
			LogLevel:       level,
		},
		JWTService,
		appHTTP.Handlers{
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
			Visit:        appHTTP.NewVisitHandler(visitSvc),
			Customer:     appHTTP.NewCustomerHandler(customerSvc),
			Office:       appHTTP.NewOfficeHandler(officeSvc),
			Notification: appHTTP.NewNotificationHandler(notifService),
			Upload:       appHTTP.NewUploadHandler(fileService),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	cron.NewNotificationJobs(repos.notifications, cfg.Notification.Retention, time.Now).RegisterJobs(scheduler)
	scheduler.Start(ctx)

	go func() {
		slog.Info("server running", "addr", "http://localhost"+server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// SSE streams end when their request contexts are cancelled by Shutdown.
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
	// Drains queued notification events before the database closes.
	notifService.Stop()
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case "memory":
		store := memory.NewStore()
		fixtures.SeedDemo(store)
		slog.Warn("using in-memory storage with demo data; nothing is persisted")
		return &repositories{
			users:         store.Users(),
			offices:       store.Offices(),
			customers:     store.Customers(),
			attendances:   store.Attendances(),
			visits:        store.Visits(),
			notifications: store.Notifications(),
			tx:            store.Transactor(),
			close:         func() {},
		}, nil
	case "postgres":
		db, err := database.NewPostgreSQLDB(context.Background(), cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := postgresql.Migrate(context.Background(), db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &repositories{
			users:         postgresql.NewUserRepository(db),
			offices:       postgresql.NewOfficeRepository(db),
			customers:     postgresql.NewCustomerRepository(db),
			attendances:   postgresql.NewAttendanceRepository(db),
			visits:        postgresql.NewVisitRepository(db),
			notifications: postgresql.NewNotificationRepository(db),
			tx:            postgresql.NewTransactor(db),
			close:         db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
