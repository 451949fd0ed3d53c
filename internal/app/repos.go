package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/codepath-backend/internal/data/repos"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type Repos struct {
	Topic          repos.TopicRepo
	Lesson         repos.LessonRepo
	QuizQuestion   repos.QuizQuestionRepo
	LessonProgress repos.LessonProgressRepo
	QuizAttempt    repos.QuizAttemptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Topic:          repos.NewTopicRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		QuizQuestion:   repos.NewQuizQuestionRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		QuizAttempt:    repos.NewQuizAttemptRepo(db, log),
	}
}
