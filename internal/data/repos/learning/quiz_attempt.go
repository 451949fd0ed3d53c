package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type QuizAttemptRepo interface {
	Create(dbc dbctx.Context, row *types.QuizAttempt) (*types.QuizAttempt, error)
	ListByLearner(dbc dbctx.Context, learnerID string, limit int) ([]*types.QuizAttempt, error)
	ListCorrectByLearner(dbc dbctx.Context, learnerID string) ([]*types.QuizAttempt, error)
	Totals(dbc dbctx.Context, learnerID string) (AttemptTotals, error)
}

type AttemptTotals struct {
	Attempts           int64 `gorm:"column:attempts"`
	QuestionsAttempted int64 `gorm:"column:questions_attempted"`
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, row *types.QuizAttempt) (*types.QuizAttempt, error) {
	if row == nil {
		return nil, nil
	}
	if row.SubmittedAt.IsZero() {
		row.SubmittedAt = time.Now().UTC()
	}
	if err := dbc.Conn(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListByLearner returns the newest attempts first. limit <= 0 means no limit.
func (r *quizAttemptRepo) ListByLearner(dbc dbctx.Context, learnerID string, limit int) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if strings.TrimSpace(learnerID) == "" {
		return out, nil
	}
	q := dbc.Conn(r.db).
		Where("learner_id = ?", learnerID).
		Order("submitted_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListCorrectByLearner returns correct attempts oldest first, so the first row
// per question is the one that earned its points.
func (r *quizAttemptRepo) ListCorrectByLearner(dbc dbctx.Context, learnerID string) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if strings.TrimSpace(learnerID) == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("learner_id = ? AND is_correct = ?", learnerID, true).
		Order("submitted_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) Totals(dbc dbctx.Context, learnerID string) (AttemptTotals, error) {
	var out AttemptTotals
	if strings.TrimSpace(learnerID) == "" {
		return out, nil
	}
	err := dbc.Conn(r.db).
		Model(&types.QuizAttempt{}).
		Select("COUNT(*) AS attempts, COUNT(DISTINCT question_id) AS questions_attempted").
		Where("learner_id = ?", learnerID).
		Scan(&out).Error
	return out, err
}

// FirstCorrectPerQuestion keeps the earliest correct attempt for each question.
func FirstCorrectPerQuestion(rows []*types.QuizAttempt) []*types.QuizAttempt {
	seen := make(map[uuid.UUID]struct{}, len(rows))
	out := make([]*types.QuizAttempt, 0, len(rows))
	for _, row := range rows {
		if row == nil || !row.IsCorrect {
			continue
		}
		if _, ok := seen[row.QuestionID]; ok {
			continue
		}
		seen[row.QuestionID] = struct{}{}
		out = append(out, row)
	}
	return out
}
