// Package server wires the GastroLog API: PostgreSQL, photo storage, the
// classifier and the HTTP server, with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/gastrolog/internal/logging"
	"github.com/dmitrijs2005/gastrolog/internal/server/classifier"
	"github.com/dmitrijs2005/gastrolog/internal/server/config"
	"github.com/dmitrijs2005/gastrolog/internal/server/httpapi"
	"github.com/dmitrijs2005/gastrolog/internal/server/images"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gastrolog/internal/server/services"
)

var openDB = sql.Open

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewStdoutLogger()

	db, err := openDB("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := newImageStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	ls := services.NewLogService(db, rm, store, logger)
	ss := services.NewSafeListService(db, rm, logger)
	as := services.NewAnalysisService(newClassifier(c), logger)

	srv := httpapi.NewHTTPServer(httpapi.Options{
		Address:         c.ListenAddr,
		JWTSecret:       c.JWTSecret,
		FrontendURL:     c.FrontendURL,
		MaxBodyBytes:    c.MaxBodyBytes,
		ShutdownTimeout: c.ShutdownTimeout,
	}, logger, ls, ss, as)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func newImageStore(ctx context.Context, c *config.Config) (images.Store, error) {
	if c.S3Bucket == "" {
		return images.InlineStore{}, nil
	}
	return images.NewS3Store(ctx, images.S3Options{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
}

func newClassifier(c *config.Config) classifier.Classifier {
	if c.Classifier == config.ClassifierAnthropic {
		return classifier.NewAnthropic(c.AnthropicAPIKey, c.DefaultModel)
	}
	return classifier.NewGemini(c.GeminiAPIKey, c.DefaultModel)
}

// Run serves until ctx is cancelled and closes the database afterwards.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	err := app.server.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close failed", "err", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
