// Package server initializes and runs the application server. It opens
// the database, runs migrations, wires the repositories and services
// together, and serves the HTTP API until interrupted.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/qrfoundry/qrfoundry/internal/logging"
	"github.com/qrfoundry/qrfoundry/internal/server/audit"
	"github.com/qrfoundry/qrfoundry/internal/server/config"
	"github.com/qrfoundry/qrfoundry/internal/server/encoding"
	"github.com/qrfoundry/qrfoundry/internal/server/httpapi"
	"github.com/qrfoundry/qrfoundry/internal/server/lifecycle"
	"github.com/qrfoundry/qrfoundry/internal/server/ratelimit"
	"github.com/qrfoundry/qrfoundry/internal/server/repositories/repomanager"
	"github.com/qrfoundry/qrfoundry/internal/server/resolver"
	"github.com/qrfoundry/qrfoundry/internal/server/targets"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	entryRepo := rm.Entries(db)
	tokenRepo := rm.Tokens(db)
	scanRepo := rm.Scans(db)
	recordRepo := rm.Records(db)

	policy := cfg.Policy()
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryCounter())
	builder := targets.NewBuilder(recordRepo, policy.BaseURL)
	lifecycleSvc := lifecycle.NewService(db, rm, builder, policy, logger)
	encodingSvc := encoding.NewService(entryRepo, recordRepo, builder, lifecycleSvc, logger)
	resolverSvc := resolver.NewService(tokenRepo, audit.NewLogger(scanRepo, logger), limiter, logger)

	srv := httpapi.NewServer(cfg, encodingSvc, lifecycleSvc, resolverSvc, entryRepo, scanRepo, limiter, logger)

	return &App{config: cfg, logger: logger, db: db, http: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.http.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.EndpointAddr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
