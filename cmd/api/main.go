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

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	notificationService "github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	attendanceRepo, employeeRepo, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open record store: ", err)
	}
	defer closeStore()

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	notifier := notificationService.NewNotificationService(emailService, notificationService.Config{
		WorkerCount: cfg.Notification.Workers,
		QueueSize:   cfg.Notification.QueueSize,
		MaxAttempts: cfg.Notification.MaxAttempts,
		BackoffBase: cfg.Notification.BackoffBase,
		SendTimeout: cfg.Notification.SendTimeout,
		MaxRetained: cfg.Notification.MaxRetained,
	})

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		notifier,
		attendanceService.Config{LateAlertThresholdMinutes: cfg.Attendance.LateAlertThresholdMinutes},
	)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo)

	router := appHTTP.NewRouter(
		cfg.App,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewNotificationHandler(notifier),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	notifier.Stop()

	if failed := notifier.Failed(); len(failed) > 0 {
		slog.Warn("Late arrival notifications not delivered", "count", len(failed))
	}
}

// openStore builds the attendance and employee repositories for the configured driver.
func openStore(cfg *config.Config) (attendance.AttendanceRepository, employee.EmployeeRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				slog.Error("Failed to close SQLite store", "error", err)
			}
		}
		return sqlite.NewAttendanceRepository(store), sqlite.NewEmployeeRepository(store), closeFn, nil

	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgresql.Migrate(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgresql.NewAttendanceRepository(db), postgresql.NewEmployeeRepository(db), db.Close, nil
	}
}
