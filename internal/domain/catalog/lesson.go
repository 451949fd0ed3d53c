package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lesson order within a topic is (order_index, created_at, id); order_index alone is not unique.
type Lesson struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`
	Topic   *Topic    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Slug    string    `gorm:"column:slug;not null;uniqueIndex:idx_lesson_slug" json:"slug"`
	Title   string    `gorm:"column:title;not null" json:"title"`

	ContentMD string `gorm:"column:content_md;type:text" json:"content_md"`
	SummaryMD string `gorm:"column:summary_md;type:text" json:"summary_md"`

	EstimatedMinutes int `gorm:"column:estimated_minutes" json:"estimated_minutes"`
	OrderIndex       int `gorm:"column:order_index;not null;default:0" json:"order_index"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
