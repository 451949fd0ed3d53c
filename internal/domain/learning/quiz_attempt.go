package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttempt is append-only; every submission inserts a row.
type QuizAttempt struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID       string    `gorm:"column:learner_id;not null;index:idx_quiz_attempt_learner_submitted,priority:1" json:"learner_id"`
	QuestionID      uuid.UUID `gorm:"type:uuid;column:question_id;not null;index" json:"question_id"`
	LessonID        uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;index" json:"lesson_id"`
	SubmittedAnswer string    `gorm:"column:submitted_answer;not null" json:"submitted_answer"`
	IsCorrect       bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	PointsEarned    int       `gorm:"column:points_earned;not null" json:"points_earned"`
	SubmittedAt     time.Time `gorm:"column:submitted_at;not null;index:idx_quiz_attempt_learner_submitted,priority:2" json:"submitted_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
