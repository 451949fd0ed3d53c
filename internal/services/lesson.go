package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/codepath-backend/internal/domain"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type LessonView struct {
	Lesson                *types.Lesson         `json:"lesson"`
	Progress              *types.LessonProgress `json:"progress,omitempty"`
	Navigation            Navigation            `json:"navigation"`
	NavigationUnavailable bool                  `json:"navigation_unavailable,omitempty"`
}

type LessonService interface {
	GetLessonView(ctx context.Context, slug string, learnerID string) (*LessonView, error)
}

type lessonService struct {
	log        *logger.Logger
	catalog    CatalogReader
	progress   ProgressService
	navigation NavigationService
}

func NewLessonService(
	baseLog *logger.Logger,
	catalog CatalogReader,
	progress ProgressService,
	navigation NavigationService,
) LessonService {
	return &lessonService{
		log:        baseLog.With("service", "LessonService"),
		catalog:    catalog,
		progress:   progress,
		navigation: navigation,
	}
}

// GetLessonView loads the lesson, then its navigation and (when learnerID is
// set) the learner's progress concurrently. It never writes progress.
func (s *lessonService) GetLessonView(ctx context.Context, slug string, learnerID string) (*LessonView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errs.Invalid("slug", "is required")
	}
	lesson, err := s.catalog.GetLessonBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	view := &LessonView{Lesson: lesson}
	learnerID = strings.TrimSpace(learnerID)

	g, gctx := errgroup.WithContext(ctx)
	if learnerID != "" {
		g.Go(func() error {
			row, err := s.progress.GetLessonProgress(gctx, learnerID, lesson.ID)
			if err != nil {
				return err
			}
			view.Progress = row
			return nil
		})
	}
	g.Go(func() error {
		nav, err := s.navigation.ResolveForLesson(gctx, lesson)
		switch errs.KindOf(err) {
		case "":
			view.Navigation = *nav
			return nil
		case errs.KindInconsistent, errs.KindUnavailable:
			s.log.Warn("navigation unavailable for lesson view", "lesson_slug", lesson.Slug, "error", err)
			view.NavigationUnavailable = true
			return nil
		default:
			return err
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
