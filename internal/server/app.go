// Package server wires the trip planner backend: configuration, PostgreSQL
// storage with migrations, the services and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/logging"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/config"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/httpapi"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/repositories/repomanager"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// seams for tests
var (
	openPostgres   = repomanager.OpenPostgres
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	cs := services.NewConversationService(db, rm)
	rs := services.NewRecommenderService(c.RecommenderURL, c.RecommenderTimeout)
	if c.RecommenderURL == "" {
		logger.Warn(ctx, "recommender URL not set, /api/query will answer 503")
	}

	srv := httpapi.NewServer(c.ListenAddr, logger, us, cs, rs,
		httpapi.WithAllowedOrigin(c.AllowedOrigin),
		httpapi.WithShutdownTimeout(c.ShutdownTimeout),
	)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// Run serves until ctx is cancelled or the server fails, then closes the
// database.
func (app *App) Run(ctx context.Context) error {

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(ctx)
	})

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close failed", "err", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
