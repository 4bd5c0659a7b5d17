package conversation

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mindsync/internal/db"
	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/llm"
	"github.com/alexanderramin/mindsync/internal/observability"
	"github.com/alexanderramin/mindsync/internal/repository"
	"github.com/alexanderramin/mindsync/internal/testutil"
	"github.com/alexanderramin/mindsync/internal/triage"
)

type fakeCompanion struct {
	reply   string
	err     error
	calls   int
	history []llm.Message
}

func (f *fakeCompanion) Reply(_ context.Context, history []llm.Message, _ string, _ triage.SentimentResult) (string, error) {
	f.calls++
	f.history = history
	return f.reply, f.err
}

type recordingObserver struct {
	events []observability.UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e observability.UseCaseEvent) {
	r.events = append(r.events, e)
}

func newTestService(t *testing.T, uow func(*sql.DB) db.UnitOfWork, opts ...Option) (*Service, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	u := testutil.NewTestUoW(database)
	if uow != nil {
		u = uow(database)
	}
	svc := NewService(
		triage.NewClassifier(nil),
		repository.NewSQLiteChatSessionRepo(database),
		repository.NewSQLiteMessageRepo(database),
		u,
		opts...,
	)
	return svc, database
}

func TestSendMessage_CannedReplies(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label triage.Label
		reply string
	}{
		{"positive", "I feel happy today", triage.LabelPositive, triage.PositiveReply},
		{"negative", "so sad and lonely", triage.LabelNegative, triage.NegativeReply},
		{"neutral", "I went to the shop", triage.LabelNeutral, triage.NeutralReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, nil)
			ctx := context.Background()
			sess, err := svc.StartSession(ctx, domain.ChannelCLI)
			require.NoError(t, err)

			reply, err := svc.SendMessage(ctx, sess.ID, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.label, reply.Result.Label)
			assert.Equal(t, tt.reply, reply.Text)
			assert.Equal(t, ReplyCanned, reply.Source)
			assert.False(t, reply.Result.IsCrisis)
		})
	}
}

func TestSendMessage_CrisisSkipsCompanion(t *testing.T) {
	companion := &fakeCompanion{reply: "should not be used"}
	svc, _ := newTestService(t, nil, WithCompanion(companion))
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, domain.ChannelHTTP)
	require.NoError(t, err)

	reply, err := svc.SendMessage(ctx, sess.ID, "I want to end my life")
	require.NoError(t, err)
	assert.True(t, reply.Result.IsCrisis)
	assert.Equal(t, triage.CrisisMessage, reply.Text)
	assert.Equal(t, ReplyCrisis, reply.Source)
	assert.Zero(t, companion.calls)

	msgs, err := svc.Transcript(ctx, sess.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsCrisis)
	assert.Equal(t, string(triage.LabelCrisis), msgs[0].Label)
}

func TestSendMessage_CompanionWithHistory(t *testing.T) {
	companion := &fakeCompanion{reply: "Tell me more about that."}
	svc, _ := newTestService(t, nil, WithCompanion(companion), WithHistoryLimit(3))
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, domain.ChannelCLI)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, sess.ID, "hello")
	require.NoError(t, err)
	assert.Empty(t, companion.history)

	reply, err := svc.SendMessage(ctx, sess.ID, "work has been stressful")
	require.NoError(t, err)
	assert.Equal(t, "Tell me more about that.", reply.Text)
	assert.Equal(t, ReplyCompanion, reply.Source)

	require.Len(t, companion.history, 2)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "hello"}, companion.history[0])
	assert.Equal(t, llm.RoleAssistant, companion.history[1].Role)

	_, err = svc.SendMessage(ctx, sess.ID, "and my sleep")
	require.NoError(t, err)
	assert.Len(t, companion.history, 3, "history is capped")
}

func TestSendMessage_CompanionFailureFallsBack(t *testing.T) {
	companion := &fakeCompanion{err: llm.ErrUnavailable}
	obs := &recordingObserver{}
	svc, _ := newTestService(t, nil, WithCompanion(companion), WithObserver(obs))
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, domain.ChannelCLI)
	require.NoError(t, err)

	reply, err := svc.SendMessage(ctx, sess.ID, "I am so anxious")
	require.NoError(t, err)
	assert.Equal(t, triage.NegativeReply, reply.Text)
	assert.Equal(t, ReplyCanned, reply.Source)

	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "send-message", obs.events[0].Name)
	assert.Contains(t, obs.events[0].Fields["companion_error"], "unavailable")
}

func TestSendMessage_Validation(t *testing.T) {
	obs := &recordingObserver{}
	svc, _ := newTestService(t, nil, WithObserver(obs))
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "whatever", "   \n")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SendMessage(ctx, "missing", "hello")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.Len(t, obs.events, 2)
	assert.False(t, obs.events[1].Success)
}

func TestSendMessage_RollbackOnReplyInsertFailure(t *testing.T) {
	injected := errors.New("injected reply insert failure")
	svc, database := newTestService(t, func(d *sql.DB) db.UnitOfWork {
		return &testutil.FailingUoW{DB: d, Match: "INSERT INTO chat_messages", Skip: 1, Err: injected}
	})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, domain.ChannelCLI)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, sess.ID, "hello there")
	require.ErrorIs(t, err, injected)

	msgs, err := repository.NewSQLiteMessageRepo(database).ListBySession(ctx, sess.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs, "user turn must be rolled back with the reply")
}

func TestTranscriptAndRecentSessions(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.StartSession(ctx, domain.ChannelCLI)
	require.NoError(t, err)
	second, err := svc.StartSession(ctx, domain.ChannelHTTP)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, first.ID, "good morning")
	require.NoError(t, err)

	msgs, err := svc.Transcript(ctx, first.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "good morning", msgs[0].Text)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)

	_, err = svc.Transcript(ctx, "missing", 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	sessions, err := svc.RecentSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID, "touched session sorts first")
	assert.Equal(t, second.ID, sessions[1].ID)
}
