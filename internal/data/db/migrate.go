package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/codepath-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureLearningIndexes(db)
}

// EnsureLearningIndexes adds indexes the struct tags cannot express.
// The statements are valid on both Postgres and SQLite.
func EnsureLearningIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_lesson_topic_nav",
			sql: `CREATE INDEX IF NOT EXISTS idx_lesson_topic_nav
				ON lesson (topic_id, order_index, created_at, id);`,
		},
		{
			name: "idx_quiz_attempt_learner_question",
			sql: `CREATE INDEX IF NOT EXISTS idx_quiz_attempt_learner_question
				ON quiz_attempt (learner_id, question_id, is_correct, submitted_at);`,
		},
		{
			name: "idx_lesson_progress_learner_status",
			sql: `CREATE INDEX IF NOT EXISTS idx_lesson_progress_learner_status
				ON lesson_progress (learner_id, status);`,
		},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
