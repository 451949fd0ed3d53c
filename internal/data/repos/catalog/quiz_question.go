package catalog

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

type QuizQuestionRepo interface {
	ReplaceForLesson(dbc dbctx.Context, lessonID uuid.UUID, rows []*types.QuizQuestion) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuizQuestion, error)
	ListByLessonID(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.QuizQuestion, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

// ReplaceForLesson swaps a lesson's question set. Rows that keep their ID survive
// (attempt history still points at them); rows missing from the new set are hard deleted.
func (r *quizQuestionRepo) ReplaceForLesson(dbc dbctx.Context, lessonID uuid.UUID, rows []*types.QuizQuestion) error {
	if lessonID == uuid.Nil {
		return nil
	}
	t := dbc.Conn(r.db)
	now := time.Now().UTC()
	keep := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		row.LessonID = lessonID
		if strings.TrimSpace(row.Type) == "" {
			row.Type = types.QuestionTypeMultipleChoice
		}
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.UpdatedAt = now
		if err := t.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"lesson_id",
				"order_index",
				"type",
				"prompt_md",
				"options",
				"correct_answer",
				"explanation_md",
				"difficulty",
				"point_value",
				"updated_at",
			}),
		}).Create(row).Error; err != nil {
			return err
		}
		keep = append(keep, row.ID)
	}
	del := t.Unscoped().Where("lesson_id = ?", lessonID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	return del.Delete(&types.QuizQuestion{}).Error
}

func (r *quizQuestionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuizQuestion, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.QuizQuestion
	if err := dbc.Conn(r.db).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *quizQuestionRepo) ListByLessonID(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.QuizQuestion, error) {
	var out []*types.QuizQuestion
	if lessonID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("lesson_id = ?", lessonID).
		Order("order_index ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
