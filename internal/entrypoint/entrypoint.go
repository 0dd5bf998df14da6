package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/budget-tracker/internal/audit"
	"github.com/mrlokans/budget-tracker/internal/config"
	"github.com/mrlokans/budget-tracker/internal/database"
	auditRepo "github.com/mrlokans/budget-tracker/internal/database/audit"
	"github.com/mrlokans/budget-tracker/internal/exporters"
	http_controllers "github.com/mrlokans/budget-tracker/internal/http"
	"github.com/mrlokans/budget-tracker/internal/importers"
	"github.com/mrlokans/budget-tracker/internal/logger"
	"github.com/mrlokans/budget-tracker/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the server until SIGINT or SIGTERM, then shuts it down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log zerolog.Logger, onShutdown ShutdownFunc) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	timeout := cfg.ShutdownTimeout()
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("server exiting")
	return nil
}

func Run(cfg *config.Config, version string) error {
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", version).Msg("starting budget tracker")

	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogger(log, logger.GormLevel(log.GetLevel())))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()
	log.Info().Str("path", db.Path()).Msg("database ready")

	auditService := audit.NewService(auditRepo.NewRepository(db.DB), log)
	exporter := exporters.NewExporter(db, cfg.Export.AppName, cfg.Export.Dir, auditService, log)
	pipeline := importers.NewPipeline(db, auditService, log)

	snapshots := scheduler.NewSnapshotScheduler(cfg.Snapshot, cfg.Audit.RetentionDays, exporter, auditService, log)
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	if err := snapshots.Start(schedulerCtx); err != nil {
		return err
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database: db,
		Exporter: exporter,
		Importer: pipeline,
		Audit:    auditService,
		Logger:   log,
		Version:  version,

		AllowedOrigins: cfg.AllowedOrigins,
	})

	onShutdown := func(ctx context.Context) {
		snapshots.Stop()
	}

	return Serve(router, cfg, log, onShutdown)
}

