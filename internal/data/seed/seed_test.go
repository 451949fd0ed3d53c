package seed

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/codepath-backend/internal/data/repos"
	"github.com/yungbote/codepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/codepath-backend/internal/domain"
	"github.com/yungbote/codepath-backend/internal/pkg/dbctx"
)

const sampleCatalog = `
topics:
  - slug: go-basics
    title: Go Basics
    lessons:
      - slug: variables
        title: Variables
        content_md: "# Variables"
        questions:
          - prompt_md: Which keyword declares a variable?
            options: [let, var, def]
            correct_answer: var
            difficulty: easy
          - prompt_md: Zero value of int?
            options: ["0", "nil"]
            correct_answer: "0"
            difficulty: medium
            point_value: 25
      - slug: functions
        title: Functions
`

func TestParseValidCatalog(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, c.Topics, 1)
	require.Len(t, c.Topics[0].Lessons, 2)
	assert.Equal(t, 25, *c.Topics[0].Lessons[0].Questions[1].PointValue)
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"no topics":      `topics: []`,
		"unknown key":    "topics:\n  - slug: a\n    colour: red\n",
		"duplicate slug": "topics:\n  - slug: a\n    lessons:\n      - {slug: x, title: X}\n  - slug: b\n    lessons:\n      - {slug: x, title: Y}\n",
		"missing title":  "topics:\n  - slug: a\n    lessons:\n      - {slug: x}\n",
		"answer not in options": "topics:\n  - slug: a\n    lessons:\n      - slug: x\n        title: X\n        questions:\n" +
			"          - {prompt_md: p, options: [a, b], correct_answer: c, difficulty: easy}\n",
		"bad difficulty": "topics:\n  - slug: a\n    lessons:\n      - slug: x\n        title: X\n        questions:\n" +
			"          - {prompt_md: p, options: [a, b], correct_answer: a, difficulty: extreme}\n",
		"zero points": "topics:\n  - slug: a\n    lessons:\n      - slug: x\n        title: X\n        questions:\n" +
			"          - {prompt_md: p, options: [a, b], correct_answer: a, difficulty: easy, point_value: 0}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	s := NewSeeder(db, log, nil)

	c, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	res, err := s.Apply(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Result{Topics: 1, Lessons: 2, Questions: 2}, res)

	lessons := repos.NewLessonRepo(db, log)
	questions := repos.NewQuizQuestionRepo(db, log)
	dbc := dbctx.New(ctx)

	variables, err := lessons.GetBySlug(dbc, "variables")
	require.NoError(t, err)
	require.NotNil(t, variables)
	first, err := questions.ListByLessonID(dbc, variables.ID)
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = s.Apply(ctx, c)
	require.NoError(t, err)

	again, err := questions.ListByLessonID(dbc, variables.ID)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, first[0].ID, again[0].ID, "question ids must be stable across reseeds")
	assert.Equal(t, first[1].ID, again[1].ID)

	n, err := lessons.Count(dbc)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestApplyDropsRemovedQuestions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	s := NewSeeder(db, log, nil)

	c, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	_, err = s.Apply(ctx, c)
	require.NoError(t, err)

	c.Topics[0].Lessons[0].Questions = c.Topics[0].Lessons[0].Questions[:1]
	res, err := s.Apply(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Questions)

	dbc := dbctx.New(ctx)
	variables, err := repos.NewLessonRepo(db, log).GetBySlug(dbc, "variables")
	require.NoError(t, err)
	qs, err := repos.NewQuizQuestionRepo(db, log).ListByLessonID(dbc, variables.ID)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "var", qs[0].CorrectAnswer)
}

func TestApplyInvalidatesNavigationCache(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	cache := &recordingCache{}

	c, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	_, err = NewSeeder(db, log, nil).Apply(ctx, c)
	require.NoError(t, err)

	dbc := dbctx.New(ctx)
	basics, err := repos.NewTopicRepo(db, log).GetBySlug(dbc, "go-basics")
	require.NoError(t, err)
	require.NotNil(t, basics)

	// Move "functions" into a new topic and reorder: both topic lists are stale.
	c.Topics[0].Lessons = c.Topics[0].Lessons[:1]
	c.Topics = append(c.Topics, TopicDef{
		Slug:    "go-advanced",
		Title:   "Go Advanced",
		Lessons: []LessonDef{{Slug: "functions", Title: "Functions"}},
	})
	_, err = NewSeeder(db, log, cache).Apply(ctx, c)
	require.NoError(t, err)

	advanced, err := repos.NewTopicRepo(db, log).GetBySlug(dbc, "go-advanced")
	require.NoError(t, err)
	require.NotNil(t, advanced)

	want := []string{types.NavigationCacheKey(basics.ID), types.NavigationCacheKey(advanced.ID)}
	sort.Strings(want)
	assert.Equal(t, want, cache.deletedKeys())
}

// recordingCache remembers deleted keys.
type recordingCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *recordingCache) deletedKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]string(nil), c.deleted...)
	sort.Strings(out)
	return out
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	return nil
}

func (c *recordingCache) Ping(ctx context.Context) error { return nil }

func (c *recordingCache) Close() error { return nil }
