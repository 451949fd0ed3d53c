package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/codepath-backend/internal/clients/redis"
	"github.com/yungbote/codepath-backend/internal/data/repos"
	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/pkg/dbctx"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

// questionNamespace derives stable question ids from "<lesson slug>#<position>",
// so reseeding keeps attempt history attached to the same rows.
var questionNamespace = uuid.MustParse("6f1c8a52-3b0e-4f57-9a61-2d7e0c4b9f13")

type Catalog struct {
	Topics []TopicDef `yaml:"topics"`
}

type TopicDef struct {
	Slug        string       `yaml:"slug"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	OrderIndex  int          `yaml:"order_index"`
	Lessons     []LessonDef `yaml:"lessons"`
}

type LessonDef struct {
	Slug             string         `yaml:"slug"`
	Title            string         `yaml:"title"`
	SummaryMD        string         `yaml:"summary_md"`
	ContentMD        string         `yaml:"content_md"`
	EstimatedMinutes int            `yaml:"estimated_minutes"`
	OrderIndex       *int           `yaml:"order_index"`
	Questions        []QuestionDef `yaml:"questions"`
}

type QuestionDef struct {
	ID            string   `yaml:"id"`
	PromptMD      string   `yaml:"prompt_md"`
	Options       []string `yaml:"options"`
	CorrectAnswer string   `yaml:"correct_answer"`
	ExplanationMD string   `yaml:"explanation_md"`
	Difficulty    string   `yaml:"difficulty"`
	PointValue    *int     `yaml:"point_value"`
}

type Result struct {
	Topics    int
	Lessons   int
	Questions int
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a catalog document. Unknown keys are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Topics) == 0 {
		return fmt.Errorf("catalog has no topics")
	}
	topicSlugs := map[string]bool{}
	lessonSlugs := map[string]bool{}
	for ti, t := range c.Topics {
		if strings.TrimSpace(t.Slug) == "" {
			return fmt.Errorf("topics[%d]: slug is required", ti)
		}
		if topicSlugs[t.Slug] {
			return fmt.Errorf("topic %q: duplicate slug", t.Slug)
		}
		topicSlugs[t.Slug] = true
		for li, l := range t.Lessons {
			if strings.TrimSpace(l.Slug) == "" {
				return fmt.Errorf("topic %q lessons[%d]: slug is required", t.Slug, li)
			}
			if lessonSlugs[l.Slug] {
				return fmt.Errorf("lesson %q: duplicate slug", l.Slug)
			}
			lessonSlugs[l.Slug] = true
			if strings.TrimSpace(l.Title) == "" {
				return fmt.Errorf("lesson %q: title is required", l.Slug)
			}
			for qi, q := range l.Questions {
				if err := q.validate(); err != nil {
					return fmt.Errorf("lesson %q questions[%d]: %w", l.Slug, qi, err)
				}
			}
		}
	}
	return nil
}

func (q QuestionDef) validate() error {
	if strings.TrimSpace(q.PromptMD) == "" {
		return fmt.Errorf("prompt_md is required")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("at least two options are required")
	}
	found := false
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("correct_answer %q is not one of the options", q.CorrectAnswer)
	}
	if !types.ParseDifficulty(q.Difficulty).Valid() {
		return fmt.Errorf("difficulty %q must be easy, medium or hard", q.Difficulty)
	}
	if q.PointValue != nil && *q.PointValue <= 0 {
		return fmt.Errorf("point_value must be > 0 when set")
	}
	if q.ID != "" {
		if _, err := uuid.Parse(q.ID); err != nil {
			return fmt.Errorf("id %q is not a UUID", q.ID)
		}
	}
	return nil
}

type Seeder struct {
	db        *gorm.DB
	log       *logger.Logger
	cache     redis.Cache
	topics    repos.TopicRepo
	lessons   repos.LessonRepo
	questions repos.QuizQuestionRepo
}

// NewSeeder builds a seeder. cache may be nil; when set, the navigation lists
// of every topic whose lessons were written are dropped after commit.
func NewSeeder(db *gorm.DB, log *logger.Logger, cache redis.Cache) *Seeder {
	return &Seeder{
		db:        db,
		log:       log.With("component", "CatalogSeeder"),
		cache:     cache,
		topics:    repos.NewTopicRepo(db, log),
		lessons:   repos.NewLessonRepo(db, log),
		questions: repos.NewQuizQuestionRepo(db, log),
	}
}

// Apply upserts the whole catalog in one transaction, keyed by slug.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Result, error) {
	var res Result
	touched := map[uuid.UUID]struct{}{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, ts := range c.Topics {
			topic := &types.Topic{
				Slug:        ts.Slug,
				Title:       ts.Title,
				Description: ts.Description,
				OrderIndex:  ts.OrderIndex,
			}
			if err := s.topics.UpsertBySlug(dbc, []*types.Topic{topic}); err != nil {
				return fmt.Errorf("upsert topic %q: %w", ts.Slug, err)
			}
			res.Topics++

			for li, ls := range ts.Lessons {
				order := li
				if ls.OrderIndex != nil {
					order = *ls.OrderIndex
				}
				// A lesson moving topics changes the order of the topic it left.
				prev, err := s.lessons.GetBySlug(dbc, ls.Slug)
				if err != nil {
					return fmt.Errorf("lookup lesson %q: %w", ls.Slug, err)
				}
				if prev != nil {
					touched[prev.TopicID] = struct{}{}
				}
				touched[topic.ID] = struct{}{}

				lesson := &types.Lesson{
					TopicID:          topic.ID,
					Slug:             ls.Slug,
					Title:            ls.Title,
					SummaryMD:        ls.SummaryMD,
					ContentMD:        ls.ContentMD,
					EstimatedMinutes: ls.EstimatedMinutes,
					OrderIndex:       order,
				}
				if err := s.lessons.UpsertBySlug(dbc, []*types.Lesson{lesson}); err != nil {
					return fmt.Errorf("upsert lesson %q: %w", ls.Slug, err)
				}
				res.Lessons++

				questions := make([]*types.QuizQuestion, 0, len(ls.Questions))
				for qi, qs := range ls.Questions {
					q, err := qs.toModel(ls.Slug, qi)
					if err != nil {
						return err
					}
					questions = append(questions, q)
				}
				if err := s.questions.ReplaceForLesson(dbc, lesson.ID, questions); err != nil {
					return fmt.Errorf("replace questions for %q: %w", ls.Slug, err)
				}
				res.Questions += len(questions)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	s.invalidateNavigation(ctx, touched)
	s.log.Info("catalog seeded", "topics", res.Topics, "lessons", res.Lessons, "questions", res.Questions)
	return res, nil
}

// invalidateNavigation drops cached lesson orderings. A failed delete only
// leaves navigation stale until the cache TTL, so it is logged, not returned.
func (s *Seeder) invalidateNavigation(ctx context.Context, topics map[uuid.UUID]struct{}) {
	if s.cache == nil || len(topics) == 0 {
		return
	}
	keys := make([]string, 0, len(topics))
	for id := range topics {
		keys = append(keys, types.NavigationCacheKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("navigation cache invalidation failed", "topics", len(keys), "error", err)
	}
}

func (q QuestionDef) toModel(lessonSlug string, position int) (*types.QuizQuestion, error) {
	id := uuid.NewSHA1(questionNamespace, []byte(fmt.Sprintf("%s#%d", lessonSlug, position)))
	if q.ID != "" {
		id = uuid.MustParse(q.ID)
	}
	opts, err := json.Marshal(q.Options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return &types.QuizQuestion{
		ID:            id,
		OrderIndex:    position,
		Type:          types.QuestionTypeMultipleChoice,
		PromptMD:      q.PromptMD,
		Options:       datatypes.JSON(opts),
		CorrectAnswer: q.CorrectAnswer,
		ExplanationMD: q.ExplanationMD,
		Difficulty:    types.ParseDifficulty(q.Difficulty),
		PointValue:    q.PointValue,
	}, nil
}
