package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/codepath-backend/internal/data/repos"
	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/observability"
	"github.com/yungbote/codepath-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

const defaultMaxTimeDeltaSeconds int64 = 3600

type ProgressInput struct {
	Status             string
	ProgressPercentage int
	TimeSpentDelta     int64
}

type ProgressSummary struct {
	LearnerID             string `json:"learner_id"`
	Completed             int64  `json:"completed"`
	InProgress            int64  `json:"in_progress"`
	NotStarted            int64  `json:"not_started"`
	TotalTouched          int64  `json:"total_touched"`
	TotalTimeSpentSeconds int64  `json:"total_time_spent_seconds"`
	CatalogLessons        int64  `json:"catalog_lessons"`
}

type ProgressService interface {
	RecordProgress(ctx context.Context, learnerID string, lessonID uuid.UUID, in ProgressInput) (*types.LessonProgress, error)
	GetProgressSummary(ctx context.Context, learnerID string) (*ProgressSummary, error)
	GetLessonProgress(ctx context.Context, learnerID string, lessonID uuid.UUID) (*types.LessonProgress, error)
}

type progressService struct {
	log          *logger.Logger
	catalog      CatalogReader
	progress     repos.LessonProgressRepo
	maxTimeDelta int64
	metrics      *observability.Metrics
}

func NewProgressService(
	baseLog *logger.Logger,
	catalog CatalogReader,
	progress repos.LessonProgressRepo,
	maxTimeDelta int64,
	metrics *observability.Metrics,
) ProgressService {
	if maxTimeDelta <= 0 {
		maxTimeDelta = defaultMaxTimeDeltaSeconds
	}
	return &progressService{
		log:          baseLog.With("service", "ProgressService"),
		catalog:      catalog,
		progress:     progress,
		maxTimeDelta: maxTimeDelta,
		metrics:      metrics,
	}
}

func (s *progressService) RecordProgress(ctx context.Context, learnerID string, lessonID uuid.UUID, in ProgressInput) (*types.LessonProgress, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return nil, fmt.Errorf("record progress: %w", errs.ErrUnauthenticated)
	}
	if lessonID == uuid.Nil {
		return nil, errs.Invalid("lessonId", "is required")
	}
	status, ok := types.ParseProgressStatus(in.Status)
	if !ok {
		return nil, errs.Invalid("status", "must be one of not_started, in_progress, completed (got %q)", in.Status)
	}
	if in.ProgressPercentage < 0 || in.ProgressPercentage > 100 {
		return nil, errs.Invalid("progressPercentage", "must be between 0 and 100 (got %d)", in.ProgressPercentage)
	}
	if in.TimeSpentDelta < 0 {
		return nil, errs.Invalid("timeSpent", "must not be negative (got %d)", in.TimeSpentDelta)
	}

	if _, err := s.catalog.GetLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	delta := in.TimeSpentDelta
	if delta > s.maxTimeDelta {
		s.log.Debug("time delta capped", "learner_id", learnerID, "lesson_id", lessonID, "delta", delta, "cap", s.maxTimeDelta)
		delta = s.maxTimeDelta
	}
	pct := in.ProgressPercentage
	if status == types.StatusCompleted {
		pct = 100
	}

	row, err := s.progress.Upsert(dbctx.New(ctx), &types.LessonProgress{
		LearnerID:          learnerID,
		LessonID:           lessonID,
		Status:             status,
		ProgressPercentage: pct,
		TimeSpentSeconds:   delta,
	})
	if err != nil {
		return nil, storeErr(ctx, "upsert lesson progress", err)
	}
	if row == nil {
		return nil, fmt.Errorf("upsert lesson progress: no row returned")
	}
	s.metrics.IncProgressUpdate(string(row.Status))
	return row, nil
}

func (s *progressService) GetProgressSummary(ctx context.Context, learnerID string) (*ProgressSummary, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return nil, fmt.Errorf("progress summary: %w", errs.ErrUnauthenticated)
	}
	totals, err := s.progress.StatusTotals(dbctx.New(ctx), learnerID)
	if err != nil {
		return nil, storeErr(ctx, "progress status totals", err)
	}
	out := &ProgressSummary{LearnerID: learnerID}
	for _, t := range totals {
		switch t.Status {
		case types.StatusCompleted:
			out.Completed += t.Count
		case types.StatusInProgress:
			out.InProgress += t.Count
		default:
			out.NotStarted += t.Count
		}
		out.TotalTouched += t.Count
		out.TotalTimeSpentSeconds += t.TimeSpent
	}
	n, err := s.catalog.CountLessons(ctx)
	if err != nil {
		return nil, err
	}
	out.CatalogLessons = n
	return out, nil
}

// GetLessonProgress returns nil when the learner has not touched the lesson.
func (s *progressService) GetLessonProgress(ctx context.Context, learnerID string, lessonID uuid.UUID) (*types.LessonProgress, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return nil, fmt.Errorf("lesson progress: %w", errs.ErrUnauthenticated)
	}
	row, err := s.progress.Get(dbctx.New(ctx), learnerID, lessonID)
	if err != nil {
		return nil, storeErr(ctx, "get lesson progress", err)
	}
	return row, nil
}
