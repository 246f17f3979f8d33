// Package app initializes and runs the main application service.
// It configures logging, storage, sessions, authentication and routing,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	nanoid "github.com/jaevor/go-nanoid"

	"github.com/patric-chuzhbe/shortie/internal/auth"
	"github.com/patric-chuzhbe/shortie/internal/config"
	"github.com/patric-chuzhbe/shortie/internal/db/jsondb"
	"github.com/patric-chuzhbe/shortie/internal/db/memorystorage"
	"github.com/patric-chuzhbe/shortie/internal/db/postgresdb"
	"github.com/patric-chuzhbe/shortie/internal/db/storage"
	"github.com/patric-chuzhbe/shortie/internal/hasher"
	"github.com/patric-chuzhbe/shortie/internal/logger"
	"github.com/patric-chuzhbe/shortie/internal/models"
	"github.com/patric-chuzhbe/shortie/internal/router"
	"github.com/patric-chuzhbe/shortie/internal/service"
	"github.com/patric-chuzhbe/shortie/internal/session"
)

// SlugLength is the length of generated slugs. Ten characters of the nanoid
// alphabet keep collisions out of reach at this system's scale.
const SlugLength = 10

// App encapsulates the configuration, HTTP handler and storage backend
// needed to run the URL shortener service.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration (a missing session secret aborts right here)
// - initializing the logger
// - selecting and setting up storage
// - assembling the session store, auth service, URL service and router
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	sessions, err := session.New(
		app.cfg.SessionCookieName,
		[]byte(app.cfg.SessionSecret),
		app.cfg.SessionMaxAge,
		app.cfg.IsProduction(),
	)
	if err != nil {
		return nil, err
	}

	newSlug, err := nanoid.Standard(SlugLength)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		service.New(app.db, newSlug, app.cfg.ShortURLBase),
		auth.New(app.db, hasher.New(hasher.DefaultCost), sessions),
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Saving database and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
