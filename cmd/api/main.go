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

	"github.com/cmlabs-hris/hrms-lite/internal/config"
	appHTTP "github.com/cmlabs-hris/hrms-lite/internal/handler/http"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-lite/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-lite/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hrms-lite/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hrms-lite/internal/service/employee"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, _ := config.ParseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		return err
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, employeeRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo)

	router := appHTTP.NewRouter(
		cfg,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
