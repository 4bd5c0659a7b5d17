package assessment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mindsync/internal/cache"
	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/repository"
	"github.com/alexanderramin/mindsync/internal/screening"
	"github.com/alexanderramin/mindsync/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *cache.MemoryCache) {
	t.Helper()
	c := cache.NewMemoryCache(time.Minute)
	return NewService(c, repository.NewSQLiteScreeningRepo(testutil.NewTestDB(t))), c
}

func TestAnswer_FullRunIsScoredAndSaved(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, screening.StepNext, started.Step.Kind)
	assert.Equal(t, 1, started.Step.Index)
	assert.Equal(t, screening.Questions()[0], started.Step.Question)

	answers := []string{"1", "2", "3", "0", "1", "2", "3", "0", "1"}
	var last *Progress
	for i, a := range answers {
		last, err = svc.Answer(ctx, started.ScreeningID, a)
		require.NoError(t, err)
		if i < len(answers)-1 {
			assert.Equal(t, screening.StepNext, last.Step.Kind)
			assert.Equal(t, i+2, last.Step.Index)
		}
	}

	require.Equal(t, screening.StepScored, last.Step.Kind)
	require.NotNil(t, last.Step.Result)
	assert.Equal(t, 13, last.Step.Result.Total)
	assert.Equal(t, screening.BandModerate, last.Step.Result.Band)
	assert.Equal(t, started.ScreeningID, last.RecordID)
	assert.Equal(t, 0, c.Len(), "finished screening leaves the cache")

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChannelHTTP, history[0].Channel)
	assert.Equal(t, []int{1, 2, 3, 0, 1, 2, 3, 0, 1}, history[0].Answers)

	_, err = svc.Answer(ctx, started.ScreeningID, "1")
	assert.ErrorIs(t, err, ErrScreeningNotFound)
}

func TestAnswer_RetryKeepsPosition(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, started.ScreeningID, "2")
	require.NoError(t, err)

	for _, bad := range []string{"4", "-1", "two", "", "1.5"} {
		p, err := svc.Answer(ctx, started.ScreeningID, bad)
		require.NoError(t, err)
		assert.Equal(t, screening.StepRetry, p.Step.Kind, "input %q", bad)
		assert.Equal(t, 2, p.Step.Index)
		assert.Equal(t, screening.RetryPrompt, p.Step.Message)
	}

	p, err := svc.Answer(ctx, started.ScreeningID, " 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Step.Index)
}

func TestAnswer_ExitAbandonsWithoutSaving(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, started.ScreeningID, "1")
	require.NoError(t, err)

	p, err := svc.Answer(ctx, started.ScreeningID, "QUIT")
	require.NoError(t, err)
	assert.Equal(t, screening.StepAbandoned, p.Step.Kind)
	assert.Equal(t, screening.ExitMessage, p.Step.Message)
	assert.Empty(t, p.RecordID)
	assert.Equal(t, 0, c.Len())

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAnswer_UnknownOrCorruptScreening(t *testing.T) {
	svc, c := newTestService(t)
	ctx := context.Background()

	_, err := svc.Answer(ctx, "nope", "1")
	assert.ErrorIs(t, err, ErrScreeningNotFound)

	require.NoError(t, c.Set(ctx, "bad", screening.Snapshot{Answers: []int{7}, State: screening.StateAwaiting}))
	_, err = svc.Answer(ctx, "bad", "1")
	assert.ErrorIs(t, err, screening.ErrInvalidSnapshot)
	assert.Equal(t, 0, c.Len())
}

func TestSave_CLIResult(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := screening.Score([]int{3, 3, 3, 3, 3, 3, 3, 3, 3})
	require.NoError(t, err)

	rec, err := svc.Save(ctx, domain.ChannelCLI, res)
	require.NoError(t, err)
	assert.Equal(t, 27, rec.Total)
	assert.Equal(t, string(screening.BandSevere), rec.Band)
	assert.NotEmpty(t, rec.ID)
}

func TestAnswer_ConcurrentAnswersAreNotLost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	started, err := svc.Start(ctx)
	require.NoError(t, err)

	const callers = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		scored   int
		notFound int
		records  []string
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.Answer(ctx, started.ScreeningID, "1")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrScreeningNotFound)
				notFound++
				return
			}
			if p.Step.Kind == screening.StepScored {
				scored++
				records = append(records, p.RecordID)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, scored, "exactly one caller completes the screening")
	assert.Equal(t, callers-screening.NumQuestions, notFound)

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, screening.NumQuestions, history[0].Total)
	assert.Equal(t, records[0], history[0].ID)
	assert.Zero(t, svc.locks.size())
}

func TestIDLocks_SerialisesPerID(t *testing.T) {
	locks := newIDLocks()

	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	assert.Equal(t, 2, locks.size())

	acquired := make(chan struct{})
	go func() {
		unlock := locks.lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock on the same id acquired while held")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock not released")
	}

	unlockB()
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 5*time.Millisecond)
}
