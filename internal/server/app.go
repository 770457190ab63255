// Package server wires configuration, storage and services together and
// runs the HTTP API next to the gRPC health endpoint until a shutdown
// signal arrives.
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

	"github.com/dmitrijs2005/lingobook/internal/logging"
	"github.com/dmitrijs2005/lingobook/internal/server/cache"
	"github.com/dmitrijs2005/lingobook/internal/server/config"
	"github.com/dmitrijs2005/lingobook/internal/server/httpapi"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lingobook/internal/server/services"
	"github.com/dmitrijs2005/lingobook/internal/server/storage"

	gs "github.com/dmitrijs2005/lingobook/internal/server/grpc"
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
	store       *storage.S3Store
	cache       services.IconCache
	handler     http.Handler
	grpc        *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	var iconCache services.IconCache = noCache{}
	if rc, err := cache.NewRedisIconCache(ctx, c); err != nil {
		logger.Warn(ctx, "icon cache disabled", "error", err)
	} else {
		iconCache = rc
	}

	rm := repomanager.NewPostgresRepositoryManager()
	users := services.NewUserService(db, rm, c)

	handler := httpapi.NewRouter(httpapi.RouterConfig{
		Logger:         logger,
		Cookie:         httpapi.CookieConfig{Name: c.CookieName, Secure: c.CookieSecure, TTL: c.SessionTTL},
		AllowedOrigins: c.AllowedOrigins,
		Auth:           users,
		Review:         services.NewReviewService(db, rm, c),
		Vocabulary:     services.NewVocabularyService(db, rm),
		Importer:       services.NewVocabularyImporter(db, rm),
		Phrases:        services.NewPhraseService(db, rm),
		Progress:       services.NewProgressService(db, rm, c),
		Books:          services.NewBookImportService(db, rm),
		Layout:         services.NewLayoutService(db, rm),
		Icons:          services.NewIconService(db, rm, store, iconCache, logger),
		DB:             db,
	})

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		store:       store,
		cache:       iconCache,
		handler:     handler,
		grpc:        gs.NewGRPCServer(c.GRPCAddr, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// prepare applies migrations and makes sure the icon bucket exists.
func (app *App) prepare(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return err
	}
	if app.store == nil {
		return nil
	}
	if err := app.store.EnsureBucket(ctx); err != nil {
		app.logger.Warn(ctx, "icon bucket unavailable", "error", err)
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.prepare(ctx); err != nil {
		app.close(ctx)
		return err
	}
	app.grpc.SetServing(true)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close(ctx context.Context) {
	if c, ok := app.cache.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			app.logger.Warn(ctx, "closing icon cache", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
}

// noCache is used when Redis is unreachable at startup.
type noCache struct{}

func (noCache) Get(context.Context, string) (*models.IconBlob, bool, error) { return nil, false, nil }
func (noCache) Set(context.Context, string, *models.IconBlob) error         { return nil }
