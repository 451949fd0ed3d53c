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

const (
	MaxAnswerBytes      = 1024
	defaultAttemptLimit = 50
	maxAttemptLimit     = 200
)

// SubmitResult is the only place the correct answer and explanation are revealed.
type SubmitResult struct {
	AttemptID     uuid.UUID `json:"attemptId"`
	IsCorrect     bool      `json:"isCorrect"`
	CorrectAnswer string    `json:"correctAnswer"`
	Explanation   string    `json:"explanation"`
	PointsEarned  int       `json:"pointsEarned"`
}

// QuestionView is a question as shown before submission.
type QuestionView struct {
	ID         uuid.UUID        `json:"id"`
	OrderIndex int              `json:"order_index"`
	Type       string           `json:"type"`
	PromptMD   string           `json:"prompt_md"`
	Options    []string         `json:"options"`
	Difficulty types.Difficulty `json:"difficulty"`
	Points     int              `json:"points"`
}

type Score struct {
	LearnerID          string `json:"learner_id"`
	TotalPoints        int64  `json:"total_points"`
	Attempts           int64  `json:"attempts"`
	QuestionsAttempted int64  `json:"questions_attempted"`
	QuestionsCorrect   int64  `json:"questions_correct"`
}

type QuizService interface {
	SubmitAnswer(ctx context.Context, learnerID string, questionID uuid.UUID, submittedAnswer string) (*SubmitResult, error)
	ListLessonQuestions(ctx context.Context, lessonSlug string) ([]QuestionView, error)
	GetScore(ctx context.Context, learnerID string) (*Score, error)
	ListAttempts(ctx context.Context, learnerID string, limit int) ([]*types.QuizAttempt, error)
}

type quizService struct {
	log      *logger.Logger
	catalog  CatalogReader
	attempts repos.QuizAttemptRepo
	points   PointsTable
	metrics  *observability.Metrics
}

func NewQuizService(
	baseLog *logger.Logger,
	catalog CatalogReader,
	attempts repos.QuizAttemptRepo,
	points PointsTable,
	metrics *observability.Metrics,
) QuizService {
	return &quizService{
		log:      baseLog.With("service", "QuizService"),
		catalog:  catalog,
		attempts: attempts,
		points:   points,
		metrics:  metrics,
	}
}

func (s *quizService) SubmitAnswer(ctx context.Context, learnerID string, questionID uuid.UUID, submittedAnswer string) (*SubmitResult, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return nil, fmt.Errorf("submit answer: %w", errs.ErrUnauthenticated)
	}
	if questionID == uuid.Nil {
		return nil, errs.Invalid("questionId", "is required")
	}
	if strings.TrimSpace(submittedAnswer) == "" {
		return nil, errs.Invalid("userAnswer", "must not be empty")
	}
	if len(submittedAnswer) > MaxAnswerBytes {
		return nil, errs.Invalid("userAnswer", "must be at most %d bytes", MaxAnswerBytes)
	}

	q, err := s.catalog.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.Type != "" && q.Type != types.QuestionTypeMultipleChoice {
		s.log.Error("unsupported question type", "question_id", q.ID, "type", q.Type)
		return nil, fmt.Errorf("question %s has type %q: %w", q.ID, q.Type, errs.ErrInconsistent)
	}
	worth, ok := s.points.PointsFor(q)
	if !ok {
		s.log.Error("question has no point value", "question_id", q.ID, "difficulty", q.Difficulty)
		return nil, fmt.Errorf("question %s difficulty %q: %w", q.ID, q.Difficulty, errs.ErrInconsistent)
	}

	correct := submittedAnswer == q.CorrectAnswer
	earned := 0
	if correct {
		earned = worth
	}

	attempt, err := s.attempts.Create(dbctx.New(ctx), &types.QuizAttempt{
		LearnerID:       learnerID,
		QuestionID:      q.ID,
		LessonID:        q.LessonID,
		SubmittedAnswer: submittedAnswer,
		IsCorrect:       correct,
		PointsEarned:    earned,
	})
	if err != nil {
		return nil, storeErr(ctx, "create quiz attempt", err)
	}
	s.metrics.IncQuizAnswered(correct, string(q.Difficulty), earned)

	return &SubmitResult{
		AttemptID:     attempt.ID,
		IsCorrect:     correct,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.ExplanationMD,
		PointsEarned:  earned,
	}, nil
}

func (s *quizService) ListLessonQuestions(ctx context.Context, lessonSlug string) ([]QuestionView, error) {
	lessonSlug = strings.TrimSpace(lessonSlug)
	if lessonSlug == "" {
		return nil, errs.Invalid("slug", "is required")
	}
	lesson, err := s.catalog.GetLessonBySlug(ctx, lessonSlug)
	if err != nil {
		return nil, err
	}
	rows, err := s.catalog.ListLessonQuestions(ctx, lesson.ID)
	if err != nil {
		return nil, err
	}
	out := make([]QuestionView, 0, len(rows))
	for _, q := range rows {
		if q == nil {
			continue
		}
		worth, _ := s.points.PointsFor(q)
		opts := q.OptionList()
		if opts == nil {
			opts = []string{}
		}
		out = append(out, QuestionView{
			ID:         q.ID,
			OrderIndex: q.OrderIndex,
			Type:       q.Type,
			PromptMD:   q.PromptMD,
			Options:    opts,
			Difficulty: q.Difficulty,
			Points:     worth,
		})
	}
	return out, nil
}

// GetScore counts every attempt, but only the first correct attempt per
// question adds to TotalPoints.
func (s *quizService) GetScore(ctx context.Context, learnerID string) (*Score, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return nil, fmt.Errorf("quiz score: %w", errs.ErrUnauthenticated)
	}
	dbc := dbctx.New(ctx)
	totals, err := s.attempts.Totals(dbc, learnerID)
	if err != nil {
		return nil, storeErr(ctx, "quiz attempt totals", err)
	}
	correct, err := s.attempts.ListCorrectByLearner(dbc, learnerID)
	if err != nil {
		return nil, storeErr(ctx, "list correct attempts", err)
	}
	out := &Score{
		LearnerID:          learnerID,
		Attempts:           totals.Attempts,
		QuestionsAttempted: totals.QuestionsAttempted,
	}
	for _, a := range repos.FirstCorrectPerQuestion(correct) {
		out.QuestionsCorrect++
		out.TotalPoints += int64(a.PointsEarned)
	}
	return out, nil
}

func (s *quizService) ListAttempts(ctx context.Context, learnerID string, limit int) ([]*types.QuizAttempt, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return nil, fmt.Errorf("list attempts: %w", errs.ErrUnauthenticated)
	}
	if limit < 0 {
		return nil, errs.Invalid("limit", "must not be negative (got %d)", limit)
	}
	if limit == 0 {
		limit = defaultAttemptLimit
	}
	if limit > maxAttemptLimit {
		limit = maxAttemptLimit
	}
	rows, err := s.attempts.ListByLearner(dbctx.New(ctx), learnerID, limit)
	if err != nil {
		return nil, storeErr(ctx, "list quiz attempts", err)
	}
	return rows, nil
}
