package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/codepath-backend/internal/domain"
)

// Unique suffixes slugs so fixtures never collide on a shared Postgres database.
func Unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Topic {
	tb.Helper()
	t := &types.Topic{
		ID:    uuid.New(),
		Slug:  slug,
		Title: "topic " + slug,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

// SeedLesson creates a lesson at orderIndex. createdAt orders lessons that share an index.
func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, slug string, orderIndex int, createdAt time.Time) *types.Lesson {
	tb.Helper()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	l := &types.Lesson{
		ID:               uuid.New(),
		TopicID:          topicID,
		Slug:             slug,
		Title:            "Lesson " + slug,
		ContentMD:        "# " + slug,
		SummaryMD:        "summary",
		EstimatedMinutes: 5,
		OrderIndex:       orderIndex,
		CreatedAt:        createdAt.UTC(),
		UpdatedAt:        createdAt.UTC(),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, correct string, difficulty types.Difficulty, pointValue *int) *types.QuizQuestion {
	tb.Helper()
	opts, _ := json.Marshal([]string{"A", "B", "C", "D"})
	q := &types.QuizQuestion{
		ID:            uuid.New(),
		LessonID:      lessonID,
		Type:          types.QuestionTypeMultipleChoice,
		PromptMD:      "Pick one",
		Options:       datatypes.JSON(opts),
		CorrectAnswer: correct,
		ExplanationMD: "Because " + correct,
		Difficulty:    difficulty,
		PointValue:    pointValue,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func PtrInt(v int) *int { return &v }
