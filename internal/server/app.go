// Package server wires the backend together: Postgres, the Redis session
// cache, the gRPC service and the ops HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/carTloyal123/shoppi/internal/server/config"
	"github.com/carTloyal123/shoppi/internal/server/httpapi"
	"github.com/carTloyal123/shoppi/internal/server/repositories/repomanager"
	"github.com/carTloyal123/shoppi/internal/server/services"
	"github.com/carTloyal123/shoppi/internal/server/sessions"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/carTloyal123/shoppi/internal/server/grpc"
)

// opsRequestsPerMinute bounds /healthz polling per client IP.
const opsRequestsPerMinute = 60

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	authService *services.AuthService
	rowService  *services.RowService
}

// NewApp opens the database, applies migrations and connects to Redis.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	store := sessions.NewRedisStore(rdb)
	if err := store.Ping(ctx); err != nil {
		_ = db.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		redis:       rdb,
		authService: services.NewAuthService(db, rm, store, c, logger),
		rowService:  services.NewRowService(db, rm),
	}, nil
}

func (app *App) healthChecks() map[string]httpapi.Check {
	return map[string]httpapi.Check{
		"postgres": app.db.PingContext,
		"redis": func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		},
	}
}

// Run serves gRPC and HTTP until ctx is cancelled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.rowService,
		app.config.AuthRateLimit, app.config.AuthRateBurst)
	g.Go(func() error {
		return grpcServer.Run(ctx)
	})

	router := httpapi.NewRouter(app.logger, app.healthChecks(), opsRequestsPerMinute)
	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)
	g.Go(func() error {
		return httpServer.Run(ctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
	return err
}

func (app *App) close() {
	if err := app.redis.Close(); err != nil {
		app.logger.Warn(context.Background(), "redis close", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(context.Background(), "db close", "error", err)
	}
}
