package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Topic struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex:idx_topic_slug" json:"slug"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	OrderIndex  int       `gorm:"column:order_index;not null;default:0" json:"order_index"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Topic) TableName() string { return "topic" }

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NavigationCacheKey names the cached ordered lesson list of a topic. Writers of
// lesson order delete it; the navigation resolver fills it.
func NavigationCacheKey(topicID uuid.UUID) string {
	return "nav:topic:" + topicID.String()
}
