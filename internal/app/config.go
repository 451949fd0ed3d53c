package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/codepath-backend/internal/clients/redis"
	"github.com/yungbote/codepath-backend/internal/data/db"
	"github.com/yungbote/codepath-backend/internal/platform/envutil"
	"github.com/yungbote/codepath-backend/internal/platform/identity"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
	"github.com/yungbote/codepath-backend/internal/services"
)

type Config struct {
	Port            string
	Environment     string
	Version         string
	ShutdownTimeout time.Duration

	DB    db.Config
	JWT   identity.JWTConfig
	Redis redis.Config

	CatalogTimeout    time.Duration
	CatalogCacheTTL   time.Duration
	MaxTimeDelta      int64
	ScoringConfigPath string

	AllowOrigins []string

	MetricsEnabled bool
	MetricsAddr    string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		Environment:     envutil.String("APP_ENV", "development"),
		Version:         envutil.String("APP_VERSION", "dev"),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "codepath"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "data/codepath.db"),
			MaxOpenConns:     envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     envutil.Int("POSTGRES_MAX_IDLE_CONNS", 10),
			SlowQuery:        envutil.Millis("DB_SLOW_QUERY_MS", time.Second),
		},
		JWT: identity.JWTConfig{
			SecretKey: envutil.String("JWT_SECRET_KEY", ""),
			Issuer:    envutil.String("JWT_ISSUER", ""),
			Audience:  envutil.String("JWT_AUDIENCE", ""),
			Leeway:    envutil.Seconds("JWT_LEEWAY_SECONDS", 30*time.Second),
		},
		Redis: redis.Config{
			Addr:      envutil.String("REDIS_ADDR", ""),
			Password:  envutil.String("REDIS_PASSWORD", ""),
			DB:        envutil.Int("REDIS_DB", 0),
			KeyPrefix: envutil.String("REDIS_KEY_PREFIX", "codepath"),
		},

		CatalogTimeout:    envutil.Millis("CATALOG_TIMEOUT_MS", 2*time.Second),
		CatalogCacheTTL:   envutil.Seconds("CATALOG_CACHE_TTL_SECONDS", 5*time.Minute),
		MaxTimeDelta:      int64(envutil.Int("PROGRESS_MAX_TIME_DELTA_SECONDS", 3600)),
		ScoringConfigPath: envutil.String("SCORING_CONFIG_PATH", ""),

		AllowOrigins: envutil.CSV("CORS_ALLOW_ORIGINS", nil),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:    envutil.String("METRICS_ADDR", ":9090"),
	}
	if log != nil {
		log.Info("config loaded",
			"env", cfg.Environment,
			"db_driver", cfg.DB.Driver,
			"redis", cfg.Redis.Addr != "",
			"metrics", cfg.MetricsEnabled,
		)
	}
	return cfg
}

// Validate only covers what serve needs; migrate and seed run without a JWT secret.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT_MS must be > 0")
	}
	if c.MaxTimeDelta <= 0 {
		return fmt.Errorf("PROGRESS_MAX_TIME_DELTA_SECONDS must be > 0")
	}
	return nil
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// LoadPoints resolves the difficulty table from SCORING_CONFIG_PATH and POINTS_* overrides.
func (c Config) LoadPoints() (services.PointsTable, error) {
	return services.LoadPointsTable(c.ScoringConfigPath)
}
