package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/codepath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/codepath-backend/internal/http/middleware"
	"github.com/yungbote/codepath-backend/internal/observability"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowOrigins   []string
	AuthMiddleware *httpMW.AuthMiddleware

	ProgressHandler *httpH.ProgressHandler
	QuizHandler     *httpH.QuizHandler
	LessonHandler   *httpH.LessonHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Anonymous allowed; learner attached when the token verifies.
	public := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			public.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		if cfg.LessonHandler != nil {
			public.GET("/lesson/:slug", cfg.LessonHandler.GetLesson)
		}
		if cfg.QuizHandler != nil {
			public.GET("/lesson/:slug/quiz", cfg.QuizHandler.ListLessonQuestions)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.POST("/progress/lesson/:lessonId", cfg.ProgressHandler.RecordLessonProgress)
			protected.GET("/progress/summary", cfg.ProgressHandler.GetSummary)
		}

		// Quiz
		if cfg.QuizHandler != nil {
			protected.POST("/quiz/submit", cfg.QuizHandler.Submit)
			protected.GET("/quiz/score", cfg.QuizHandler.GetScore)
			protected.GET("/quiz/attempts", cfg.QuizHandler.ListAttempts)
		}
	}

	return r
}
