package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/codepath-backend/internal/data/repos"
	"github.com/yungbote/codepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/observability"
)

type fixture struct {
	db       *gorm.DB
	ctx      context.Context
	cache    *memCache
	catalog  CatalogReader
	progress ProgressService
	quiz     QuizService
	nav      NavigationService
	lessons  LessonService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	var m *observability.Metrics
	cache := newMemCache()

	catalog := NewCatalogReader(log, repos.NewLessonRepo(db, log), repos.NewQuizQuestionRepo(db, log), 2*time.Second, m)
	progress := NewProgressService(log, catalog, repos.NewLessonProgressRepo(db, log), 3600, m)
	quiz := NewQuizService(log, catalog, repos.NewQuizAttemptRepo(db, log), DefaultPointsTable(), m)
	nav := NewNavigationService(log, catalog, cache, time.Minute, m)
	return &fixture{
		db:       db,
		ctx:      context.Background(),
		cache:    cache,
		catalog:  catalog,
		progress: progress,
		quiz:     quiz,
		nav:      nav,
		lessons:  NewLessonService(log, catalog, progress, nav),
	}
}

// topic seeds a topic with one lesson per slug, ordered as given.
func (f *fixture) topic(t *testing.T, slugs ...string) []*types.Lesson {
	t.Helper()
	topic := testutil.SeedTopic(t, f.ctx, f.db, testutil.Unique("topic"))
	base := time.Now().UTC().Add(-time.Hour)
	out := make([]*types.Lesson, 0, len(slugs))
	for i, slug := range slugs {
		out = append(out, testutil.SeedLesson(t, f.ctx, f.db, topic.ID, slug, i, base.Add(time.Duration(i)*time.Second)))
	}
	return out
}

func (f *fixture) progressRows(t *testing.T, learnerID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&types.LessonProgress{}).Where("learner_id = ?", learnerID).Count(&n).Error)
	return n
}

// memCache is an in-process stand-in for the Redis cache.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	hits    int
	sets    int
	getErr  error
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = append([]byte(nil), val...)
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.deletes++
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }
func (c *memCache) Close() error                   { return nil }

func (c *memCache) put(key string, val []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
}
