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

type TopicRepo interface {
	UpsertBySlug(dbc dbctx.Context, rows []*types.Topic) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Topic, error)
	List(dbc dbctx.Context) ([]*types.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

// UpsertBySlug inserts topics or refreshes the existing row with the same slug.
// Each row's ID is reloaded afterwards so callers can attach lessons to it.
func (r *topicRepo) UpsertBySlug(dbc dbctx.Context, rows []*types.Topic) error {
	if len(rows) == 0 {
		return nil
	}
	t := dbc.Conn(r.db)
	now := time.Now().UTC()
	for _, row := range rows {
		if row == nil || strings.TrimSpace(row.Slug) == "" {
			continue
		}
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = now
		}
		if err := t.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title",
				"description",
				"order_index",
				"updated_at",
			}),
		}).Create(row).Error; err != nil {
			return err
		}
		var stored types.Topic
		if err := t.Where("slug = ?", row.Slug).Take(&stored).Error; err != nil {
			return err
		}
		row.ID = stored.ID
	}
	return nil
}

func (r *topicRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Topic
	if err := dbc.Conn(r.db).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *topicRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Topic, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var row types.Topic
	if err := dbc.Conn(r.db).Where("slug = ?", slug).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *topicRepo) List(dbc dbctx.Context) ([]*types.Topic, error) {
	var out []*types.Topic
	if err := dbc.Conn(r.db).
		Order("order_index ASC, slug ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
