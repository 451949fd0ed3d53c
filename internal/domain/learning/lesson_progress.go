package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonProgress is the single current-state row per (learner, lesson).
type LessonProgress struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID          string         `gorm:"column:learner_id;not null;uniqueIndex:idx_lesson_progress_learner_lesson,priority:1" json:"learner_id"`
	LessonID           uuid.UUID      `gorm:"type:uuid;column:lesson_id;not null;uniqueIndex:idx_lesson_progress_learner_lesson,priority:2;index" json:"lesson_id"`
	Status             ProgressStatus `gorm:"column:status;not null" json:"status"`
	ProgressPercentage int            `gorm:"column:progress_percentage;not null" json:"progress_percentage"`
	TimeSpentSeconds   int64          `gorm:"column:time_spent_seconds;not null" json:"time_spent_seconds"`
	LastViewedAt       time.Time      `gorm:"column:last_viewed_at;not null" json:"last_viewed_at"`
	CompletedAt        *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
