package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/codepath-backend/internal/data/repos/catalog"
	"github.com/yungbote/codepath-backend/internal/data/repos/learning"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type TopicRepo = catalog.TopicRepo
type LessonRepo = catalog.LessonRepo
type QuizQuestionRepo = catalog.QuizQuestionRepo

type LessonProgressRepo = learning.LessonProgressRepo
type QuizAttemptRepo = learning.QuizAttemptRepo

type StatusTotal = learning.StatusTotal
type AttemptTotals = learning.AttemptTotals

var FirstCorrectPerQuestion = learning.FirstCorrectPerQuestion

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return catalog.NewTopicRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return catalog.NewLessonRepo(db, baseLog)
}
func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return catalog.NewQuizQuestionRepo(db, baseLog)
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, baseLog)
}
func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return learning.NewQuizAttemptRepo(db, baseLog)
}
