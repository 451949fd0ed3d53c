package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/codepath-backend/internal/data/repos"
	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/observability"
	"github.com/yungbote/codepath-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

const defaultCatalogTimeout = 2 * time.Second

// CatalogReader is the read-only view of topics, lessons and questions.
// Every call is bounded by the configured timeout; a timeout surfaces as
// ErrUnavailable and a missing row as ErrNotFound.
type CatalogReader interface {
	GetLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error)
	GetLessonBySlug(ctx context.Context, slug string) (*types.Lesson, error)
	ListTopicLessons(ctx context.Context, topicID uuid.UUID) ([]*types.Lesson, error)
	CountLessons(ctx context.Context) (int64, error)
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*types.QuizQuestion, error)
	ListLessonQuestions(ctx context.Context, lessonID uuid.UUID) ([]*types.QuizQuestion, error)
}

type catalogReader struct {
	log       *logger.Logger
	lessons   repos.LessonRepo
	questions repos.QuizQuestionRepo
	timeout   time.Duration
	metrics   *observability.Metrics
}

func NewCatalogReader(
	baseLog *logger.Logger,
	lessons repos.LessonRepo,
	questions repos.QuizQuestionRepo,
	timeout time.Duration,
	metrics *observability.Metrics,
) CatalogReader {
	if timeout <= 0 {
		timeout = defaultCatalogTimeout
	}
	return &catalogReader{
		log:       baseLog.With("service", "CatalogReader"),
		lessons:   lessons,
		questions: questions,
		timeout:   timeout,
		metrics:   metrics,
	}
}

// bounded runs fn under the catalog timeout and classifies its error.
func (s *catalogReader) bounded(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	err := storeErr(cctx, op, fn(dbctx.New(cctx)))
	outcome := "ok"
	switch errs.KindOf(err) {
	case "":
	case errs.KindUnavailable:
		outcome = "unavailable"
		s.log.Warn("catalog read unavailable", "op", op, "timeout_ms", s.timeout.Milliseconds(), "error", err)
	case errs.KindNotFound:
		outcome = "not_found"
	default:
		outcome = "error"
	}
	s.metrics.ObserveCatalogRead(op, outcome, time.Since(start))
	return err
}

func (s *catalogReader) GetLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	var out *types.Lesson
	err := s.bounded(ctx, "get lesson", func(dbc dbctx.Context) error {
		row, err := s.lessons.GetByID(dbc, lessonID)
		if err != nil {
			return err
		}
		if row == nil {
			return errs.NotFound("lesson", lessonID)
		}
		out = row
		return nil
	})
	return out, err
}

func (s *catalogReader) GetLessonBySlug(ctx context.Context, slug string) (*types.Lesson, error) {
	var out *types.Lesson
	err := s.bounded(ctx, "get lesson by slug", func(dbc dbctx.Context) error {
		row, err := s.lessons.GetBySlug(dbc, slug)
		if err != nil {
			return err
		}
		if row == nil {
			return errs.NotFound("lesson", slug)
		}
		out = row
		return nil
	})
	return out, err
}

func (s *catalogReader) ListTopicLessons(ctx context.Context, topicID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	err := s.bounded(ctx, "list topic lessons", func(dbc dbctx.Context) error {
		rows, err := s.lessons.ListByTopicOrdered(dbc, topicID)
		out = rows
		return err
	})
	return out, err
}

func (s *catalogReader) CountLessons(ctx context.Context) (int64, error) {
	var n int64
	err := s.bounded(ctx, "count lessons", func(dbc dbctx.Context) error {
		c, err := s.lessons.Count(dbc)
		n = c
		return err
	})
	return n, err
}

func (s *catalogReader) GetQuestion(ctx context.Context, questionID uuid.UUID) (*types.QuizQuestion, error) {
	var out *types.QuizQuestion
	err := s.bounded(ctx, "get question", func(dbc dbctx.Context) error {
		row, err := s.questions.GetByID(dbc, questionID)
		if err != nil {
			return err
		}
		if row == nil {
			return errs.NotFound("question", questionID)
		}
		out = row
		return nil
	})
	return out, err
}

func (s *catalogReader) ListLessonQuestions(ctx context.Context, lessonID uuid.UUID) ([]*types.QuizQuestion, error) {
	var out []*types.QuizQuestion
	err := s.bounded(ctx, "list lesson questions", func(dbc dbctx.Context) error {
		rows, err := s.questions.ListByLessonID(dbc, lessonID)
		out = rows
		return err
	})
	return out, err
}
