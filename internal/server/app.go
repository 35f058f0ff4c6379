// Package server initializes and runs the catalog server: database,
// migrations, blob store, services and the HTTP API, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wibisana/berkas/internal/logging"
	"github.com/wibisana/berkas/internal/server/blob"
	"github.com/wibisana/berkas/internal/server/config"
	"github.com/wibisana/berkas/internal/server/httpapi"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
	"github.com/wibisana/berkas/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	s3 := blob.NewS3Store(blob.S3Config{
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Bucket:        c.S3Bucket,
		Region:        c.S3Region,
		BaseEndpoint:  c.S3BaseEndpoint,
		PresignExpiry: c.PresignExpiry,
	})
	blobs := blob.NewCachedStore(s3, c.URLCacheSize, c.URLCacheTTL)

	handlers := httpapi.NewHandlers(httpapi.Services{
		Identity:  services.NewIdentityService(db, rm),
		Catalog:   services.NewCatalogService(db, rm, blobs),
		Lifecycle: services.NewLifecycleService(db, rm, blobs, logger),
		Favorites: services.NewFavoriteService(db, rm),
		Paths:     services.NewPathService(db, rm),
	})

	router := httpapi.NewRouter(httpapi.RouterConfig{
		JWTSecret: []byte(c.JWTSecret),
		SharedKey: c.ProvisioningKey,
	}, handlers, logger)

	srv := httpapi.NewServer(c.HTTPAddr, router, logger)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
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

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
