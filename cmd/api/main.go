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
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/expense"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	commissionService "github.com/cmlabs-hris/payroll-engine/internal/service/commission"
	notificationService "github.com/cmlabs-hris/payroll-engine/internal/service/notification"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

const (
	appName    = "payroll-engine"
	appVersion = "v1.0.0"
)

type repositories struct {
	tx            database.Transactor
	employees     employee.EmployeeRepository
	attendance    attendance.AttendanceRepository
	workItems     commission.WorkItemRepository
	payslips      payroll.PayslipRepository
	requests      payroll.PayslipRequestRepository
	expenses      expense.ExpenseRepository
	notifications notification.Repository
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	level := parseLevel(cfg.App.LogLevel)
	logger := newLogger(cfg.App.Env, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repos.close()

	if cfg.App.SeedDemoData && cfg.Database.Driver == config.DriverMemory {
		ids, err := fixtures.Seed(ctx, repos.employees, repos.workItems, time.Now())
		if err != nil {
			logger.Error("failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		for name, id := range ids.EmployeeIDs {
			logger.Info("seeded employee", slog.String("name", name), slog.String("employee_id", id))
		}
	}

	hub := sse.NewHub(16)
	notifier := notificationService.NewNotificationService(repos.notifications, hub, logger, notificationService.Config{
		WorkerCount: cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
	})
	defer notifier.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	scheduler := cron.NewScheduler(logger)
	scheduler.AddJob(cron.NewPendingRequestReminderJob(repos.requests, notifier, cfg.Cron.ReminderInterval, cfg.Cron.ReminderAfter, time.Now))
	scheduler.AddJob(cron.NewRevokedTokenPruneJob(JWTService, cfg.Cron.TokenPruneInterval))
	scheduler.Start()
	defer scheduler.Stop()

	commissions := commissionService.NewCommissionService(repos.workItems, repos.payslips, repos.employees, cfg.Payroll.Location)
	attendances := attendanceService.NewAttendanceService(repos.tx, repos.attendance, repos.employees, repos.payslips, attendanceService.Options{
		Location: cfg.Payroll.Location,
		Epoch:    cfg.Payroll.EpochDate,
		Logger:   logger,
	})
	payrolls := payrollService.NewPayrollService(
		repos.tx,
		repos.employees,
		repos.attendance,
		repos.payslips,
		repos.requests,
		repos.expenses,
		commissions,
		notifier,
		payrollService.Options{
			Location: cfg.Payroll.Location,
			Epoch:    cfg.Payroll.EpochDate,
			Logger:   logger,
		},
	)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       level,
		},
		logger,
		JWTService,
		appHTTP.NewAttendanceHandler(attendances),
		appHTTP.NewCommissionHandler(commissions),
		appHTTP.NewPayrollHandler(payrolls),
		appHTTP.NewSessionHandler(JWTService),
		appHTTP.NewNotificationHandler(hub, 30*time.Second),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running",
			slog.String("addr", server.Addr),
			slog.String("driver", cfg.Database.Driver),
			slog.String("timezone", cfg.Payroll.Location.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore(cfg.Database.TxTimeout)
		return &repositories{
			tx:            store,
			employees:     memory.NewEmployeeRepository(store),
			attendance:    memory.NewAttendanceRepository(store),
			workItems:     memory.NewWorkItemRepository(store),
			payslips:      memory.NewPayslipRepository(store),
			requests:      memory.NewPayslipRequestRepository(store),
			expenses:      memory.NewExpenseRepository(store),
			notifications: memory.NewNotificationRepository(store),
			close:         func() {},
		}, nil

	default:
		dsn := cfg.DatabaseURL()
		if cfg.Database.MigrateOnStart {
			if err := database.Migrate(dsn, logger); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}

		db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		return &repositories{
			tx:            postgresql.NewTxManager(db, cfg.Database.TxTimeout),
			employees:     postgresql.NewEmployeeRepository(db),
			attendance:    postgresql.NewAttendanceRepository(db),
			workItems:     postgresql.NewWorkItemRepository(db),
			payslips:      postgresql.NewPayslipRepository(db),
			requests:      postgresql.NewPayslipRequestRepository(db),
			expenses:      postgresql.NewExpenseRepository(db),
			notifications: postgresql.NewNotificationRepository(db),
			close:         db.Close,
		}, nil
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", env),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
