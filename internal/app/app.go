package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/codepath-backend/internal/data/db"
	"github.com/yungbote/codepath-backend/internal/data/seed"
	httpx "github.com/yungbote/codepath-backend/internal/http"
	"github.com/yungbote/codepath-backend/internal/observability"
	"github.com/yungbote/codepath-backend/internal/platform/envutil"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type App struct {
	Log *logger.Logger
	DB  *gorm.DB
	Cfg Config

	database *db.DatabaseService
}

// New sets up logging, configuration and the database handle shared by every command.
func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	database, err := db.NewDatabaseService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}

	return &App{
		Log:      log,
		DB:       database.DB(),
		Cfg:      cfg,
		database: database,
	}, nil
}

func (a *App) Migrate() error {
	a.Log.Info("Running migrations...", "driver", a.database.Driver())
	if err := db.AutoMigrateAll(a.DB); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (a *App) Seed(ctx context.Context, path string) (seed.Result, error) {
	catalog, err := seed.LoadFile(path)
	if err != nil {
		return seed.Result{}, err
	}
	clients, err := wireClients(a.Log, a.Cfg)
	if err != nil {
		return seed.Result{}, err
	}
	defer clients.Close()
	return seed.NewSeeder(a.DB, a.Log, clients.Cache).Apply(ctx, catalog)
}

// Serve wires the HTTP stack and blocks until ctx is cancelled or the listener fails.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Cfg.Validate(); err != nil {
		return err
	}
	if envutil.Bool("AUTO_MIGRATE", true) {
		if err := a.Migrate(); err != nil {
			return err
		}
	}

	shutdownOTel := observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}()

	metrics := observability.Init(a.Log)
	if metrics != nil && a.Cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	}

	clients, err := wireClients(a.Log, a.Cfg)
	if err != nil {
		return err
	}
	defer clients.Close()

	reposet := wireRepos(a.DB, a.Log)
	serviceset, err := wireServices(a.Log, a.Cfg, reposet, clients, metrics)
	if err != nil {
		return err
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}
	handlers := wireHandlers(a.Log, serviceset, sqlDB, clients)
	middleware := wireMiddleware(a.Log, serviceset)

	server := httpx.NewServer(a.Log, a.Cfg.Addr(), routerConfig(a.Log, a.Cfg, metrics, handlers, middleware))
	return server.Run(ctx, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil && a.Log != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
