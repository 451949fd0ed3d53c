package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/codepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/codepath-backend/internal/domain"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
)

func TestResolveNavigationMiddle(t *testing.T) {
	f := newFixture(t)
	lessons := f.topic(t, "l1", "l2", "l3")

	nav, err := f.nav.ResolveNavigation(f.ctx, lessons[1].ID)
	require.NoError(t, err)
	assert.Equal(t, &Navigation{
		Previous: &NavLink{Slug: "l1", Title: "Lesson l1"},
		Next:     &NavLink{Slug: "l3", Title: "Lesson l3"},
	}, nav)
}

func TestResolveNavigationEdges(t *testing.T) {
	f := newFixture(t)
	lessons := f.topic(t, "first", "mid", "last")

	nav, err := f.nav.ResolveNavigation(f.ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Nil(t, nav.Previous)
	require.NotNil(t, nav.Next)
	assert.Equal(t, "mid", nav.Next.Slug)

	nav, err = f.nav.ResolveNavigation(f.ctx, lessons[2].ID)
	require.NoError(t, err)
	assert.Nil(t, nav.Next)
	require.NotNil(t, nav.Previous)
	assert.Equal(t, "mid", nav.Previous.Slug)

	only := f.topic(t, "alone")[0]
	nav, err = f.nav.ResolveNavigation(f.ctx, only.ID)
	require.NoError(t, err)
	assert.Nil(t, nav.Previous)
	assert.Nil(t, nav.Next)
}

func TestResolveNavigationTieBreaksOnCreatedAt(t *testing.T) {
	f := newFixture(t)
	topic := testutil.SeedTopic(t, f.ctx, f.db, testutil.Unique("topic"))
	base := time.Now().UTC().Add(-time.Hour)
	// Inserted out of order; all but "z" share order_index 1.
	c := testutil.SeedLesson(t, f.ctx, f.db, topic.ID, "c", 1, base.Add(3*time.Second))
	testutil.SeedLesson(t, f.ctx, f.db, topic.ID, "z", 0, base.Add(9*time.Second))
	testutil.SeedLesson(t, f.ctx, f.db, topic.ID, "a", 1, base.Add(1*time.Second))
	testutil.SeedLesson(t, f.ctx, f.db, topic.ID, "b", 1, base.Add(2*time.Second))

	nav, err := f.nav.ResolveNavigation(f.ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, nav.Previous)
	assert.Equal(t, "b", nav.Previous.Slug)
	assert.Nil(t, nav.Next)
}

func TestResolveNavigationUsesCache(t *testing.T) {
	f := newFixture(t)
	lessons := f.topic(t, "l1", "l2", "l3")

	_, err := f.nav.ResolveNavigation(f.ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)
	assert.Equal(t, 0, f.cache.hits)

	nav, err := f.nav.ResolveNavigation(f.ctx, lessons[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.Equal(t, 1, f.cache.sets)
	assert.Equal(t, "l2", nav.Previous.Slug)
}

func TestResolveNavigationStaleCacheReloads(t *testing.T) {
	f := newFixture(t)
	lessons := f.topic(t, "l1", "l2")

	// A cached list written before l2 existed.
	stale, err := json.Marshal([]navEntry{{ID: lessons[0].ID, Slug: "l1", Title: "Lesson l1"}})
	require.NoError(t, err)
	f.cache.put(navCacheKey(lessons[0].TopicID), stale)

	nav, err := f.nav.ResolveNavigation(f.ctx, lessons[1].ID)
	require.NoError(t, err)
	require.NotNil(t, nav.Previous)
	assert.Equal(t, "l1", nav.Previous.Slug)
	assert.Equal(t, 1, f.cache.deletes)
	assert.Equal(t, 1, f.cache.sets)
}

func TestResolveNavigationCacheErrorFallsBack(t *testing.T) {
	f := newFixture(t)
	lessons := f.topic(t, "l1", "l2")
	f.cache.getErr = errors.New("redis down")

	nav, err := f.nav.ResolveNavigation(f.ctx, lessons[0].ID)
	require.NoError(t, err)
	require.NotNil(t, nav.Next)
	assert.Equal(t, "l2", nav.Next.Slug)
}

func TestResolveNavigationErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.nav.ResolveNavigation(f.ctx, uuid.New())
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	_, err = f.nav.ResolveNavigation(f.ctx, uuid.Nil)
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
}

func TestResolveNavigationInconsistent(t *testing.T) {
	topicID := uuid.New()
	orphan := &types.Lesson{ID: uuid.New(), TopicID: topicID, Slug: "orphan", Title: "Orphan"}
	other := &types.Lesson{ID: uuid.New(), TopicID: topicID, Slug: "other", Title: "Other"}
	cat := &stubCatalog{
		lessons: map[uuid.UUID]*types.Lesson{orphan.ID: orphan},
		topic:   []*types.Lesson{other},
	}
	nav := NewNavigationService(testutil.Logger(t), cat, nil, 0, nil)

	_, err := nav.ResolveNavigation(context.Background(), orphan.ID)
	require.Error(t, err)
	assert.Equal(t, errs.KindInconsistent, errs.KindOf(err))
}

func TestResolveNavigationCoalescesConcurrentMisses(t *testing.T) {
	topicID := uuid.New()
	var lessons []*types.Lesson
	byID := map[uuid.UUID]*types.Lesson{}
	for _, slug := range []string{"a", "b", "c"} {
		l := &types.Lesson{ID: uuid.New(), TopicID: topicID, Slug: slug, Title: slug}
		lessons = append(lessons, l)
		byID[l.ID] = l
	}
	cat := &stubCatalog{lessons: byID, topic: lessons, listDelay: 50 * time.Millisecond}
	nav := NewNavigationService(testutil.Logger(t), cat, nil, 0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := nav.ResolveNavigation(context.Background(), lessons[1].ID)
			assert.NoError(t, err)
			if got != nil && got.Previous != nil {
				assert.Equal(t, "a", got.Previous.Slug)
			}
		}()
	}
	wg.Wait()
	assert.Less(t, cat.listCalls(), 8)
}

func TestResolveNavigationSharedLoadSurvivesFirstCallerCancel(t *testing.T) {
	topicID := uuid.New()
	var lessons []*types.Lesson
	byID := map[uuid.UUID]*types.Lesson{}
	for _, slug := range []string{"a", "b", "c"} {
		l := &types.Lesson{ID: uuid.New(), TopicID: topicID, Slug: slug, Title: slug}
		lessons = append(lessons, l)
		byID[l.ID] = l
	}
	cat := &stubCatalog{lessons: byID, topic: lessons, listDelay: 80 * time.Millisecond}
	nav := NewNavigationService(testutil.Logger(t), cat, nil, 0, nil)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := nav.ResolveNavigation(firstCtx, lessons[1].ID)
		firstErr <- err
	}()
	time.AfterFunc(10*time.Millisecond, cancel)

	time.Sleep(5 * time.Millisecond)
	got, err := nav.ResolveNavigation(context.Background(), lessons[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Previous)
	assert.Equal(t, "a", got.Previous.Slug)
	require.NotNil(t, got.Next)
	assert.Equal(t, "c", got.Next.Slug)

	err = <-firstErr
	require.Error(t, err)
	assert.Equal(t, errs.KindUnavailable, errs.KindOf(err))
	assert.Equal(t, 1, cat.listCalls())
}

// stubCatalog serves fixed rows for navigation edge cases the database cannot express.
type stubCatalog struct {
	mu        sync.Mutex
	lessons   map[uuid.UUID]*types.Lesson
	topic     []*types.Lesson
	listDelay time.Duration
	lists     int
}

func (s *stubCatalog) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists
}

func (s *stubCatalog) GetLesson(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	if l, ok := s.lessons[id]; ok {
		return l, nil
	}
	return nil, errs.NotFound("lesson", id)
}

func (s *stubCatalog) GetLessonBySlug(ctx context.Context, slug string) (*types.Lesson, error) {
	for _, l := range s.lessons {
		if l.Slug == slug {
			return l, nil
		}
	}
	return nil, errs.NotFound("lesson", slug)
}

func (s *stubCatalog) ListTopicLessons(ctx context.Context, topicID uuid.UUID) ([]*types.Lesson, error) {
	s.mu.Lock()
	s.lists++
	s.mu.Unlock()
	if s.listDelay > 0 {
		select {
		case <-time.After(s.listDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.topic, nil
}

func (s *stubCatalog) CountLessons(ctx context.Context) (int64, error) {
	return int64(len(s.lessons)), nil
}

func (s *stubCatalog) GetQuestion(ctx context.Context, id uuid.UUID) (*types.QuizQuestion, error) {
	return nil, errs.NotFound("question", id)
}

func (s *stubCatalog) ListLessonQuestions(ctx context.Context, lessonID uuid.UUID) ([]*types.QuizQuestion, error) {
	return nil, nil
}
