// Package server wires the diet service together: it opens the database,
// runs migrations, builds the services, and runs the HTTP API, the gRPC
// health server and the session cleanup worker until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/rlocatelli9/daily-diet-api/internal/server/config"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/repomanager"
	"github.com/rlocatelli9/daily-diet-api/internal/server/rest"
	"github.com/rlocatelli9/daily-diet-api/internal/server/services"

	gs "github.com/rlocatelli9/daily-diet-api/internal/server/grpc"
)

const (
	shutdownTimeout     = 30 * time.Second
	healthCheckInterval = 15 * time.Second
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *services.SessionService
	users       *services.UserService
	meals       *services.MealService
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		sessions:    services.NewSessionService(db, rm, c, logger),
		users:       services.NewUserService(db, rm, c, logger),
		meals:       services.NewMealService(db, rm, newExporter(c), logger),
	}, nil
}

// newExporter returns nil when object storage is not configured, so the
// meal service answers exports with common.ErrorUnavailable.
func newExporter(c *config.Config) services.Exporter {
	if e := services.NewS3Exporter(c); e != nil {
		return e
	}
	return nil
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

func (app *App) handler() (http.Handler, error) {
	return rest.NewRouter(rest.RouterConfig{
		Gate:     app.sessions,
		Accounts: app.users,
		Meals:    app.meals,
		DB:       app.db,
		Log:      app.logger,
		Cookie: rest.CookieOptions{
			Domain: app.config.CookieDomain,
			Secure: app.config.CookieSecure,
		},
		RequestTimeout:  app.config.RequestTimeout,
		SignInRateLimit: app.config.SignInRateLimit,
		MetricsEnabled:  app.config.MetricsEnabled,
	})
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	h, err := app.handler()
	if err != nil {
		app.logger.Error(ctx, "router init error", "error", err)
		cancelFunc()
		return
	}

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(context.Background(), "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(context.Background(), "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.db, healthCheckInterval, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the database and serves until ctx is cancelled or a shutdown
// signal arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.sessions.RunCleanup(ctx, app.config.SessionCleanupInterval)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return app.db.Close()
}
