package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nessimus/workday-scheduler/internal/application"
	"github.com/nessimus/workday-scheduler/internal/config"
	httptransport "github.com/nessimus/workday-scheduler/internal/http"
	"github.com/nessimus/workday-scheduler/internal/persistence/sqlite"
	"github.com/nessimus/workday-scheduler/internal/seed"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	now := time.Now
	idGenerator := uuid.NewString
	tokenGenerator := uuid.NewString

	shiftRepo := sqlite.NewShiftRepository(db)
	employeeRepo := sqlite.NewEmployeeRepository(db)
	availabilityRepo := sqlite.NewAvailabilityRepository(db)
	workdayRepo := sqlite.NewWorkdayRepository(db)
	actionItemRepo := sqlite.NewActionItemRepository(db)

	if cfg.SeedFile != "" {
		importer := seed.Importer{
			Employees:    employeeRepo,
			Availability: availabilityRepo,
			Shifts:       shiftRepo,
			ActionItems:  actionItemRepo,
			Now:          now,
			Logger:       logger,
		}
		if err := importSeed(ctx, importer, cfg, logger); err != nil {
			logger.Error("failed to import seed file", "error", err, "path", cfg.SeedFile)
			os.Exit(1)
		}
	}

	shiftService := application.NewShiftServiceWithLogger(shiftRepo, idGenerator, now, logger)
	employeeService := application.NewEmployeeServiceWithLogger(employeeRepo, idGenerator, now, logger)
	agendaService := application.NewAgendaService(shiftRepo, employeeRepo)
	workdayService := application.NewWorkdayServiceWithLogger(employeeRepo, availabilityRepo, workdayRepo, now, logger)
	dispatchService := application.NewDispatchServiceWithLogger(actionItemRepo, tokenGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Shifts:     httptransport.NewShiftHandler(shiftService, cfg.CompanyID, logger),
		Agenda:     httptransport.NewAgendaHandler(agendaService, cfg.CompanyID, now, logger).WithHorizonDays(cfg.HorizonDays),
		Employees:  httptransport.NewEmployeeHandler(employeeService, workdayService, cfg.CompanyID, logger),
		Workday:    httptransport.NewWorkdayHandler(workdayService, cfg.CompanyID, logger),
		Dispatch:   httptransport.NewDispatchHandler(dispatchService, cfg.CompanyID, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("workday API listening", "addr", server.Addr, "company_id", cfg.CompanyID)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// importSeed loads the configured seed file. A missing file is logged and
// skipped so the same configuration works before and after first boot.
func importSeed(ctx context.Context, importer seed.Importer, cfg config.Config, logger *slog.Logger) error {
	doc, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("seed file not found, skipping import", "path", cfg.SeedFile)
			return nil
		}
		return err
	}
	return importer.Import(ctx, doc, cfg.CompanyID)
}
