package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/codepath-backend/internal/clients/redis"
	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/observability"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

const defaultNavCacheTTL = 5 * time.Minute

type NavLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Navigation is the derived (previous, next) pair for a lesson within its topic.
type Navigation struct {
	Previous *NavLink `json:"previous"`
	Next     *NavLink `json:"next"`
}

type NavigationService interface {
	ResolveNavigation(ctx context.Context, lessonID uuid.UUID) (*Navigation, error)
	ResolveForLesson(ctx context.Context, lesson *types.Lesson) (*Navigation, error)
}

// navEntry is the cached shape of one lesson in a topic's ordered list.
type navEntry struct {
	ID    uuid.UUID `json:"id"`
	Slug  string    `json:"slug"`
	Title string    `json:"title"`
}

type navigationService struct {
	log      *logger.Logger
	catalog  CatalogReader
	cache    redis.Cache
	cacheTTL time.Duration
	group    singleflight.Group
	metrics  *observability.Metrics
}

// NewNavigationService builds the resolver. cache may be nil, in which case
// every call reads the topic list from the catalog.
func NewNavigationService(
	baseLog *logger.Logger,
	catalog CatalogReader,
	cache redis.Cache,
	cacheTTL time.Duration,
	metrics *observability.Metrics,
) NavigationService {
	if cacheTTL <= 0 {
		cacheTTL = defaultNavCacheTTL
	}
	return &navigationService{
		log:      baseLog.With("service", "NavigationService"),
		catalog:  catalog,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

func (s *navigationService) ResolveNavigation(ctx context.Context, lessonID uuid.UUID) (*Navigation, error) {
	if lessonID == uuid.Nil {
		return nil, errs.Invalid("lessonId", "is required")
	}
	lesson, err := s.catalog.GetLesson(ctx, lessonID)
	if err != nil {
		s.metrics.IncNavigation(string(errs.KindOf(err)))
		return nil, err
	}
	return s.ResolveForLesson(ctx, lesson)
}

// ResolveForLesson locates lesson in its topic's ordered list. A cached list
// that no longer contains the lesson is dropped and reloaded once before the
// catalog is reported inconsistent.
func (s *navigationService) ResolveForLesson(ctx context.Context, lesson *types.Lesson) (*Navigation, error) {
	if lesson == nil {
		return nil, errs.Invalid("lesson", "is required")
	}
	entries, cached, err := s.topicEntries(ctx, lesson.TopicID)
	if err != nil {
		s.metrics.IncNavigation(string(errs.KindOf(err)))
		return nil, err
	}
	idx := indexOf(entries, lesson.ID)
	if idx < 0 && cached {
		s.invalidate(ctx, lesson.TopicID)
		entries, err = s.loadTopic(ctx, lesson.TopicID)
		if err != nil {
			s.metrics.IncNavigation(string(errs.KindOf(err)))
			return nil, err
		}
		idx = indexOf(entries, lesson.ID)
	}
	if idx < 0 {
		s.log.Error("lesson missing from its topic ordering",
			"lesson_id", lesson.ID,
			"lesson_slug", lesson.Slug,
			"topic_id", lesson.TopicID,
			"topic_lessons", len(entries),
		)
		s.metrics.IncNavigation(string(errs.KindInconsistent))
		return nil, fmt.Errorf("lesson %s not in topic %s ordering: %w", lesson.ID, lesson.TopicID, errs.ErrInconsistent)
	}

	nav := &Navigation{}
	if idx > 0 {
		nav.Previous = &NavLink{Slug: entries[idx-1].Slug, Title: entries[idx-1].Title}
	}
	if idx+1 < len(entries) {
		nav.Next = &NavLink{Slug: entries[idx+1].Slug, Title: entries[idx+1].Title}
	}
	s.metrics.IncNavigation("ok")
	return nav, nil
}

func indexOf(entries []navEntry, id uuid.UUID) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func navCacheKey(topicID uuid.UUID) string {
	return types.NavigationCacheKey(topicID)
}

// topicEntries returns the ordered list for topicID and whether it came from the cache.
func (s *navigationService) topicEntries(ctx context.Context, topicID uuid.UUID) ([]navEntry, bool, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, navCacheKey(topicID))
		switch {
		case err != nil:
			s.metrics.IncNavigationCache("error")
			s.log.Warn("nav cache get failed", "topic_id", topicID, "error", err)
		case ok:
			var entries []navEntry
			if uerr := json.Unmarshal(raw, &entries); uerr == nil {
				s.metrics.IncNavigationCache("hit")
				return entries, true, nil
			}
			s.metrics.IncNavigationCache("corrupt")
			s.log.Warn("nav cache entry corrupt", "topic_id", topicID)
		default:
			s.metrics.IncNavigationCache("miss")
		}
	}
	entries, err := s.loadTopic(ctx, topicID)
	return entries, false, err
}

// loadTopic reads the ordered list from the catalog and refreshes the cache.
// Concurrent loads of one topic share a single catalog read. The shared read
// runs detached from any one caller's cancellation (the catalog timeout still
// bounds it); each caller stops waiting when its own ctx ends.
func (s *navigationService) loadTopic(ctx context.Context, topicID uuid.UUID) ([]navEntry, error) {
	ch := s.group.DoChan(topicID.String(), func() (interface{}, error) {
		return s.readTopic(context.WithoutCancel(ctx), topicID)
	})
	select {
	case <-ctx.Done():
		return nil, storeErr(ctx, "ListTopicLessons", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]navEntry), nil
	}
}

func (s *navigationService) readTopic(ctx context.Context, topicID uuid.UUID) ([]navEntry, error) {
	rows, err := s.catalog.ListTopicLessons(ctx, topicID)
	if err != nil {
		return nil, err
	}
	entries := make([]navEntry, 0, len(rows))
	for _, l := range rows {
		if l == nil {
			continue
		}
		entries = append(entries, navEntry{ID: l.ID, Slug: l.Slug, Title: l.Title})
	}
	if s.cache != nil {
		if b, merr := json.Marshal(entries); merr == nil {
			if serr := s.cache.Set(ctx, navCacheKey(topicID), b, s.cacheTTL); serr != nil {
				s.log.Warn("nav cache set failed", "topic_id", topicID, "error", serr)
			}
		}
	}
	return entries, nil
}

func (s *navigationService) invalidate(ctx context.Context, topicID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, navCacheKey(topicID)); err != nil {
		s.log.Warn("nav cache delete failed", "topic_id", topicID, "error", err)
	}
}
