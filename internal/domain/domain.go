package domain

import (
	"github.com/yungbote/codepath-backend/internal/domain/catalog"
	"github.com/yungbote/codepath-backend/internal/domain/learning"
)

type (
	Topic        = catalog.Topic
	Lesson       = catalog.Lesson
	QuizQuestion = catalog.QuizQuestion
	Difficulty   = catalog.Difficulty

	LessonProgress = learning.LessonProgress
	QuizAttempt    = learning.QuizAttempt
	ProgressStatus = learning.ProgressStatus
)

const (
	DifficultyEasy   = catalog.DifficultyEasy
	DifficultyMedium = catalog.DifficultyMedium
	DifficultyHard   = catalog.DifficultyHard

	QuestionTypeMultipleChoice = catalog.QuestionTypeMultipleChoice

	StatusNotStarted = learning.StatusNotStarted
	StatusInProgress = learning.StatusInProgress
	StatusCompleted  = learning.StatusCompleted
)

var (
	ParseProgressStatus = learning.ParseProgressStatus
	ParseDifficulty     = catalog.ParseDifficulty
	NavigationCacheKey  = catalog.NavigationCacheKey
)

// Models lists every table owned or read by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Topic{},
		&Lesson{},
		&QuizQuestion{},
		&LessonProgress{},
		&QuizAttempt{},
	}
}
