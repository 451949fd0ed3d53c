package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const QuestionTypeMultipleChoice = "multiple_choice"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func ParseDifficulty(raw string) Difficulty {
	return Difficulty(strings.ToLower(strings.TrimSpace(raw)))
}

// QuizQuestion holds the authoritative answer. CorrectAnswer and ExplanationMD
// are never serialized directly; callers project the fields they may reveal.
type QuizQuestion struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson        *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"-"`
	OrderIndex    int            `gorm:"column:order_index;not null;default:0" json:"order_index"`
	Type          string         `gorm:"column:type;not null" json:"type"`
	PromptMD      string         `gorm:"column:prompt_md;type:text;not null" json:"prompt_md"`
	Options       datatypes.JSON `gorm:"column:options" json:"options"`
	CorrectAnswer string         `gorm:"column:correct_answer;not null" json:"-"`
	ExplanationMD string         `gorm:"column:explanation_md;type:text" json:"-"`
	Difficulty    Difficulty     `gorm:"column:difficulty;not null" json:"difficulty"`
	PointValue    *int           `gorm:"column:point_value" json:"-"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// OptionList decodes Options. Malformed JSON yields nil.
func (q *QuizQuestion) OptionList() []string {
	if q == nil || len(q.Options) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(q.Options, &out); err != nil {
		return nil
	}
	return out
}
