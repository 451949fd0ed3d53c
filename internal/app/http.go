package app

import (
	"database/sql"

	httpx "github.com/yungbote/codepath-backend/internal/http"
	httpH "github.com/yungbote/codepath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/codepath-backend/internal/http/middleware"
	"github.com/yungbote/codepath-backend/internal/observability"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

const serviceName = "codepath-backend"

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Progress *httpH.ProgressHandler
	Quiz     *httpH.QuizHandler
	Lesson   *httpH.LessonHandler
}

func wireHandlers(log *logger.Logger, services Services, sqlDB *sql.DB, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	deps := map[string]httpH.Pinger{"database": sqlDB}
	if clients.Cache != nil {
		deps["redis"] = cachePinger{cache: clients.Cache}
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(deps),
		Progress: httpH.NewProgressHandler(log, services.Progress),
		Quiz:     httpH.NewQuizHandler(log, services.Quiz),
		Lesson:   httpH.NewLessonHandler(log, services.Lesson),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Identity),
	}
}

func routerConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) httpx.RouterConfig {
	return httpx.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     serviceName,
		AllowOrigins:    cfg.AllowOrigins,
		AuthMiddleware:  middleware.Auth,
		ProgressHandler: handlers.Progress,
		QuizHandler:     handlers.Quiz,
		LessonHandler:   handlers.Lesson,
		HealthHandler:   handlers.Health,
	}
}
