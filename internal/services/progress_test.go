package services

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/codepath-backend/internal/data/repos"
	"github.com/yungbote/codepath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/codepath-backend/internal/domain"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
)

func TestRecordProgressViewThenComplete(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]

	got, err := f.progress.RecordProgress(f.ctx, "42", l1.ID, ProgressInput{Status: "in_progress", ProgressPercentage: 50, TimeSpentDelta: 5})
	require.NoError(t, err)
	assert.Equal(t, types.StatusInProgress, got.Status)
	assert.Equal(t, 50, got.ProgressPercentage)
	assert.EqualValues(t, 5, got.TimeSpentSeconds)
	assert.Nil(t, got.CompletedAt)

	got, err = f.progress.RecordProgress(f.ctx, "42", l1.ID, ProgressInput{Status: "completed", ProgressPercentage: 100, TimeSpentDelta: 3})
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.ProgressPercentage)
	assert.EqualValues(t, 8, got.TimeSpentSeconds)
	require.NotNil(t, got.CompletedAt)

	assert.EqualValues(t, 1, f.progressRows(t, "42"))
}

func TestRecordProgressCompletionIsSticky(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]

	first, err := f.progress.RecordProgress(f.ctx, "7", l1.ID, ProgressInput{Status: "completed", ProgressPercentage: 100})
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	for _, in := range []ProgressInput{
		{Status: "in_progress", ProgressPercentage: 10, TimeSpentDelta: 1},
		{Status: "not_started", ProgressPercentage: 0, TimeSpentDelta: 1},
		{Status: "completed", ProgressPercentage: 100, TimeSpentDelta: 1},
	} {
		got, err := f.progress.RecordProgress(f.ctx, "7", l1.ID, in)
		require.NoError(t, err)
		assert.Equal(t, types.StatusCompleted, got.Status, "status after %+v", in)
		assert.Equal(t, 100, got.ProgressPercentage, "pct after %+v", in)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, got.CompletedAt.Equal(*first.CompletedAt), "completed_at must keep the first completion")
	}
}

func TestRecordProgressCompletedForcesFullPercentage(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]

	for _, pct := range []int{0, 30, 99} {
		learner := testutil.Unique("learner")
		got, err := f.progress.RecordProgress(f.ctx, learner, l1.ID, ProgressInput{Status: "completed", ProgressPercentage: pct})
		require.NoError(t, err)
		assert.Equal(t, 100, got.ProgressPercentage, "input pct %d", pct)
	}
}

func TestRecordProgressPercentageNeverDecreases(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]

	_, err := f.progress.RecordProgress(f.ctx, "9", l1.ID, ProgressInput{Status: "in_progress", ProgressPercentage: 70})
	require.NoError(t, err)
	got, err := f.progress.RecordProgress(f.ctx, "9", l1.ID, ProgressInput{Status: "in_progress", ProgressPercentage: 40})
	require.NoError(t, err)
	assert.Equal(t, 70, got.ProgressPercentage)
}

func TestRecordProgressValidation(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]

	cases := []struct {
		name     string
		learner  string
		lessonID uuid.UUID
		in       ProgressInput
		kind     errs.Kind
	}{
		{"no learner", "", l1.ID, ProgressInput{Status: "in_progress"}, errs.KindUnauthenticated},
		{"blank learner", "  ", l1.ID, ProgressInput{Status: "in_progress"}, errs.KindUnauthenticated},
		{"unknown status", "1", l1.ID, ProgressInput{Status: "paused"}, errs.KindInvalidArgument},
		{"pct below range", "1", l1.ID, ProgressInput{Status: "in_progress", ProgressPercentage: -1}, errs.KindInvalidArgument},
		{"pct above range", "1", l1.ID, ProgressInput{Status: "in_progress", ProgressPercentage: 101}, errs.KindInvalidArgument},
		{"negative time", "1", l1.ID, ProgressInput{Status: "in_progress", TimeSpentDelta: -5}, errs.KindInvalidArgument},
		{"unknown lesson", "1", uuid.New(), ProgressInput{Status: "in_progress"}, errs.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.progress.RecordProgress(f.ctx, tc.learner, tc.lessonID, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, errs.KindOf(err), "err=%v", err)
		})
	}
	assert.EqualValues(t, 0, f.progressRows(t, "1"))
}

func TestRecordProgressCapsTimeDelta(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]
	log := testutil.Logger(t)
	svc := NewProgressService(log, f.catalog, repos.NewLessonProgressRepo(f.db, log), 60, nil)

	got, err := svc.RecordProgress(f.ctx, "3", l1.ID, ProgressInput{Status: "in_progress", TimeSpentDelta: 10_000})
	require.NoError(t, err)
	assert.EqualValues(t, 60, got.TimeSpentSeconds)
}

func TestRecordProgressConcurrentSingleRow(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]

	const n = 12
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := "in_progress"
			if i == n/2 {
				status = "completed"
			}
			_, err := f.progress.RecordProgress(f.ctx, "dup-tab", l1.ID, ProgressInput{Status: status, ProgressPercentage: i, TimeSpentDelta: 1})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	assert.EqualValues(t, 1, f.progressRows(t, "dup-tab"))
	got, err := f.progress.GetLessonProgress(f.ctx, "dup-tab", l1.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, n, got.TimeSpentSeconds)
	assert.Equal(t, types.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.ProgressPercentage)
}

func TestGetProgressSummary(t *testing.T) {
	f := newFixture(t)
	lessons := f.topic(t, "a", "b", "c", "d")

	_, err := f.progress.RecordProgress(f.ctx, "s1", lessons[0].ID, ProgressInput{Status: "completed", ProgressPercentage: 100, TimeSpentDelta: 30})
	require.NoError(t, err)
	_, err = f.progress.RecordProgress(f.ctx, "s1", lessons[1].ID, ProgressInput{Status: "in_progress", ProgressPercentage: 20, TimeSpentDelta: 10})
	require.NoError(t, err)
	_, err = f.progress.RecordProgress(f.ctx, "s1", lessons[2].ID, ProgressInput{Status: "not_started", TimeSpentDelta: 2})
	require.NoError(t, err)
	_, err = f.progress.RecordProgress(f.ctx, "other", lessons[3].ID, ProgressInput{Status: "completed", TimeSpentDelta: 99})
	require.NoError(t, err)

	sum, err := f.progress.GetProgressSummary(f.ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, &ProgressSummary{
		LearnerID:             "s1",
		Completed:             1,
		InProgress:            1,
		NotStarted:            1,
		TotalTouched:          3,
		TotalTimeSpentSeconds: 42,
		CatalogLessons:        4,
	}, sum)

	_, err = f.progress.GetProgressSummary(f.ctx, "")
	assert.Equal(t, errs.KindUnauthenticated, errs.KindOf(err))
}

func TestGetLessonProgressUntouched(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]

	got, err := f.progress.GetLessonProgress(f.ctx, "nobody", l1.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalogTimeoutIsUnavailable(t *testing.T) {
	f := newFixture(t)
	l1 := f.topic(t, "l1")[0]
	log := testutil.Logger(t)

	slow := NewCatalogReader(log, repos.NewLessonRepo(f.db, log), repos.NewQuizQuestionRepo(f.db, log), time.Nanosecond, nil)
	svc := NewProgressService(log, slow, repos.NewLessonProgressRepo(f.db, log), 0, nil)

	_, err := svc.RecordProgress(f.ctx, "t1", l1.ID, ProgressInput{Status: "in_progress"})
	require.Error(t, err)
	assert.Equal(t, errs.KindUnavailable, errs.KindOf(err), "err=%v", err)
	assert.EqualValues(t, 0, f.progressRows(t, "t1"))
}
