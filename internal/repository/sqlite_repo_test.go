package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/testutil"
)

var (
	_ ChatSessionRepo = (*SQLiteChatSessionRepo)(nil)
	_ MessageRepo     = (*SQLiteMessageRepo)(nil)
	_ ScreeningRepo   = (*SQLiteScreeningRepo)(nil)
)

func TestChatSessionRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteChatSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestChatSession()
	sess.Channel = domain.ChannelHTTP
	require.NoError(t, repo.Create(ctx, sess))

	fetched, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, fetched.ID)
	assert.Equal(t, domain.ChannelHTTP, fetched.Channel)
	assert.WithinDuration(t, sess.CreatedAt, fetched.CreatedAt, time.Microsecond)
}

func TestChatSessionRepo_NotFound(t *testing.T) {
	repo := NewSQLiteChatSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Touch(ctx, "nonexistent"), ErrNotFound)
}

func TestChatSessionRepo_TouchAndListRecent(t *testing.T) {
	repo := NewSQLiteChatSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	older := testutil.NewTestChatSession()
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := testutil.NewTestChatSession()
	newer.UpdatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	require.NoError(t, repo.Touch(ctx, older.ID))
	list, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, older.ID, list[0].ID)
}

func TestMessageRepo_AppendAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	sessions := NewSQLiteChatSessionRepo(database)
	repo := NewSQLiteMessageRepo(database)
	ctx := context.Background()

	sess := testutil.NewTestChatSession()
	require.NoError(t, sessions.Create(ctx, sess))

	texts := []string{"first", "second", "third", "fourth"}
	for i, text := range texts {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		require.NoError(t, repo.Append(ctx, testutil.NewTestMessage(sess.ID, text,
			testutil.WithRole(role),
			testutil.WithTriage("NEGATIVE", 0.8, false),
		)))
	}

	all, err := repo.ListBySession(ctx, sess.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, m := range all {
		assert.Equal(t, texts[i], m.Text)
	}
	assert.Equal(t, domain.RoleAssistant, all[1].Role)
	assert.Equal(t, "NEGATIVE", all[0].Label)
	assert.InDelta(t, 0.8, all[0].Score, 1e-9)

	last, err := repo.ListBySession(ctx, sess.ID, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "third", last[0].Text)
	assert.Equal(t, "fourth", last[1].Text)
}

func TestMessageRepo_CrisisFlagRoundTrips(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	sess := testutil.NewTestChatSession()
	require.NoError(t, NewSQLiteChatSessionRepo(database).Create(ctx, sess))

	repo := NewSQLiteMessageRepo(database)
	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage(sess.ID, "I want to die", testutil.WithTriage("CRISIS", 1, true))))

	msgs, err := repo.ListBySession(ctx, sess.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsCrisis)
}

func TestMessageRepo_UnknownSession(t *testing.T) {
	repo := NewSQLiteMessageRepo(testutil.NewTestDB(t))

	err := repo.Append(context.Background(), testutil.NewTestMessage("missing", "hello"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMessageRepo_CascadeOnSessionDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	sessions := NewSQLiteChatSessionRepo(database)
	repo := NewSQLiteMessageRepo(database)

	sess := testutil.NewTestChatSession()
	require.NoError(t, sessions.Create(ctx, sess))
	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage(sess.ID, "hi")))

	require.NoError(t, sessions.Delete(ctx, sess.ID))

	msgs, err := repo.ListBySession(ctx, sess.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestScreeningRepo_CreateGetList(t *testing.T) {
	repo := NewSQLiteScreeningRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := testutil.NewTestScreening(3, "Minimal or none (0-4)", base)
	second := testutil.NewTestScreening(10, "Moderate (10-14)", base.Add(24*time.Hour))
	second.Answers = []int{2, 2, 1, 1, 1, 0, 0, 0, 3}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, "Moderate (10-14)", got.Band)
	assert.Equal(t, []int{2, 2, 1, 1, 1, 0, 0, 0, 3}, got.Answers)
	assert.True(t, second.CompletedAt.Equal(got.CompletedAt))

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSplitInts(t *testing.T) {
	got, err := splitInts(joinInts([]int{0, 3, 2}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 2}, got)

	empty, err := splitInts("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = splitInts("1,x")
	assert.Error(t, err)
}
