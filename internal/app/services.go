package app

import (
	"fmt"

	"github.com/yungbote/codepath-backend/internal/observability"
	"github.com/yungbote/codepath-backend/internal/platform/identity"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
	"github.com/yungbote/codepath-backend/internal/services"
)

type Services struct {
	Identity   identity.Provider
	Catalog    services.CatalogReader
	Progress   services.ProgressService
	Quiz       services.QuizService
	Navigation services.NavigationService
	Lesson     services.LessonService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	provider, err := identity.NewJWTProvider(log, cfg.JWT)
	if err != nil {
		return Services{}, fmt.Errorf("init identity provider: %w", err)
	}

	points, err := cfg.LoadPoints()
	if err != nil {
		return Services{}, fmt.Errorf("load scoring table: %w", err)
	}
	log.Info("scoring table loaded", "easy", points.Easy, "medium", points.Medium, "hard", points.Hard)

	catalog := services.NewCatalogReader(log, reposet.Lesson, reposet.QuizQuestion, cfg.CatalogTimeout, metrics)
	progress := services.NewProgressService(log, catalog, reposet.LessonProgress, cfg.MaxTimeDelta, metrics)
	quiz := services.NewQuizService(log, catalog, reposet.QuizAttempt, points, metrics)
	navigation := services.NewNavigationService(log, catalog, clients.Cache, cfg.CatalogCacheTTL, metrics)
	lesson := services.NewLessonService(log, catalog, progress, navigation)

	return Services{
		Identity:   provider,
		Catalog:    catalog,
		Progress:   progress,
		Quiz:       quiz,
		Navigation: navigation,
		Lesson:     lesson,
	}, nil
}
