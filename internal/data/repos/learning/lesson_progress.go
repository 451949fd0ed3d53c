package learning

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type LessonProgressRepo interface {
	Upsert(dbc dbctx.Context, row *types.LessonProgress) (*types.LessonProgress, error)
	Get(dbc dbctx.Context, learnerID string, lessonID uuid.UUID) (*types.LessonProgress, error)
	StatusTotals(dbc dbctx.Context, learnerID string) ([]StatusTotal, error)
}

// StatusTotal is one GROUP BY status bucket for a learner.
type StatusTotal struct {
	Status    types.ProgressStatus `gorm:"column:status"`
	Count     int64                `gorm:"column:count"`
	TimeSpent int64                `gorm:"column:time_spent"`
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

// Upsert merges row into the (learner_id, lesson_id) record in one statement:
// time accumulates, status only moves forward, completed pins the percentage
// at 100, the percentage never decreases and the first completed_at wins.
// The unique index settles concurrent first views; the merged row is re-read and returned.
func (r *lessonProgressRepo) Upsert(dbc dbctx.Context, row *types.LessonProgress) (*types.LessonProgress, error) {
	if row == nil || strings.TrimSpace(row.LearnerID) == "" || row.LessonID == uuid.Nil {
		return nil, nil
	}
	t := dbc.Conn(r.db)
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.LastViewedAt.IsZero() {
		row.LastViewedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}
	if row.Status == types.StatusCompleted {
		row.ProgressPercentage = 100
		if row.CompletedAt == nil {
			row.CompletedAt = &now
		}
	} else {
		row.CompletedAt = nil
	}

	completed := string(types.StatusCompleted)
	inProgress := string(types.StatusInProgress)
	err := t.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "learner_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status": gorm.Expr(
				`CASE
					WHEN lesson_progress.status = ? OR excluded.status = ? THEN ?
					WHEN lesson_progress.status = ? OR excluded.status = ? THEN ?
					ELSE lesson_progress.status
				END`,
				completed, completed, completed,
				inProgress, inProgress, inProgress,
			),
			"progress_percentage": gorm.Expr(
				`CASE
					WHEN lesson_progress.status = ? OR excluded.status = ? THEN 100
					WHEN excluded.progress_percentage > lesson_progress.progress_percentage THEN excluded.progress_percentage
					ELSE lesson_progress.progress_percentage
				END`,
				completed, completed,
			),
			"time_spent_seconds": gorm.Expr("lesson_progress.time_spent_seconds + excluded.time_spent_seconds"),
			"completed_at":       gorm.Expr("COALESCE(lesson_progress.completed_at, excluded.completed_at)"),
			"last_viewed_at":     gorm.Expr("excluded.last_viewed_at"),
			"updated_at":         gorm.Expr("excluded.updated_at"),
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	var stored types.LessonProgress
	if err := t.Where("learner_id = ? AND lesson_id = ?", row.LearnerID, row.LessonID).
		Take(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *lessonProgressRepo) Get(dbc dbctx.Context, learnerID string, lessonID uuid.UUID) (*types.LessonProgress, error) {
	if strings.TrimSpace(learnerID) == "" || lessonID == uuid.Nil {
		return nil, nil
	}
	var row types.LessonProgress
	if err := dbc.Conn(r.db).
		Where("learner_id = ? AND lesson_id = ?", learnerID, lessonID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *lessonProgressRepo) StatusTotals(dbc dbctx.Context, learnerID string) ([]StatusTotal, error) {
	var out []StatusTotal
	if strings.TrimSpace(learnerID) == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.LessonProgress{}).
		Select("status, COUNT(*) AS count, CAST(COALESCE(SUM(time_spent_seconds), 0) AS BIGINT) AS time_spent").
		Where("learner_id = ?", learnerID).
		Group("status").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
