package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

// NavOrder is the total order of lessons inside a topic.
const NavOrder = "order_index ASC, created_at ASC, id ASC"

type LessonRepo interface {
	UpsertBySlug(dbc dbctx.Context, rows []*types.Lesson) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Lesson, error)
	ListByTopicOrdered(dbc dbctx.Context, topicID uuid.UUID) ([]*types.Lesson, error)
	Count(dbc dbctx.Context) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

// UpsertBySlug keeps created_at of existing rows, so re-seeding never reshuffles
// lessons that share an order_index.
func (r *lessonRepo) UpsertBySlug(dbc dbctx.Context, rows []*types.Lesson) error {
	if len(rows) == 0 {
		return nil
	}
	t := dbc.Conn(r.db)
	now := time.Now().UTC()
	for _, row := range rows {
		if row == nil || strings.TrimSpace(row.Slug) == "" || row.TopicID == uuid.Nil {
			continue
		}
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = now
		}
		if err := t.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"topic_id",
				"title",
				"content_md",
				"summary_md",
				"estimated_minutes",
				"order_index",
				"updated_at",
			}),
		}).Create(row).Error; err != nil {
			return err
		}
		var stored types.Lesson
		if err := t.Where("slug = ?", row.Slug).Take(&stored).Error; err != nil {
			return err
		}
		row.ID = stored.ID
		row.CreatedAt = stored.CreatedAt
	}
	return nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Lesson
	if err := dbc.Conn(r.db).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *lessonRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Lesson, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var row types.Lesson
	if err := dbc.Conn(r.db).Where("slug = ?", slug).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *lessonRepo) ListByTopicOrdered(dbc dbctx.Context, topicID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if topicID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Select("id", "topic_id", "slug", "title", "order_index", "created_at").
		Where("topic_id = ?", topicID).
		Order(NavOrder).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&types.Lesson{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
