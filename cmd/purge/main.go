// Command purge runs one purge pass over entries marked for deletion
// and exits. Meant for cron-style schedulers; the same operation is
// reachable over HTTP at /internal/v1/purge.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wibisana/berkas/internal/logging"
	"github.com/wibisana/berkas/internal/server/blob"
	"github.com/wibisana/berkas/internal/server/config"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
	"github.com/wibisana/berkas/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()

	blobs := blob.NewS3Store(blob.S3Config{
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		PresignExpiry: cfg.PresignExpiry,
	})

	svc := services.NewLifecycleService(db, rm, blobs, logger)

	purged, err := svc.PurgeMarkedEntries(ctx)
	if err != nil {
		logger.Error(ctx, "purge failed", "error", err.Error())
		os.Exit(1)
	}

	logger.Info(ctx, "purge finished", "purged", purged)
}
