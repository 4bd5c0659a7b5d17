package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mindsync/internal/assessment"
	"github.com/alexanderramin/mindsync/internal/cache"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/observability"
	"github.com/alexanderramin/mindsync/internal/repository"
	"github.com/alexanderramin/mindsync/internal/screening"
	"github.com/alexanderramin/mindsync/internal/testutil"
	"github.com/alexanderramin/mindsync/internal/triage"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	database := testutil.NewTestDB(t)
	classifier := triage.NewClassifier(nil)

	conv := conversation.NewService(
		classifier,
		repository.NewSQLiteChatSessionRepo(database),
		repository.NewSQLiteMessageRepo(database),
		testutil.NewTestUoW(database),
	)
	screenings := assessment.NewService(
		cache.NewMemoryCache(time.Minute),
		repository.NewSQLiteScreeningRepo(database),
	)
	return NewRouter(&Container{
		Classifier:   classifier,
		Conversation: conv,
		Screenings:   screenings,
		Logger:       observability.Discard(),
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["external_triage"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodOptions, "/v1/chat", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestClassify(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		text   string
		label  triage.Label
		crisis bool
		reply  string
	}{
		{"crisis", "I think about suicide", triage.LabelCrisis, true, triage.CrisisMessage},
		{"positive", "feeling great", triage.LabelPositive, false, triage.PositiveReply},
		{"negative", "I'm stressed and tired", triage.LabelNegative, false, triage.NegativeReply},
		{"neutral", "just a normal tuesday", triage.LabelNeutral, false, triage.NeutralReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/v1/classify", classifyRequest{Text: tt.text})
			require.Equal(t, http.StatusOK, w.Code)

			body := decode[classifyResponse](t, w)
			assert.Equal(t, tt.label, body.Label)
			assert.Equal(t, tt.crisis, body.IsCrisis)
			assert.Equal(t, tt.reply, body.Reply)
		})
	}
}

func TestClassify_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/v1/classify", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/v1/classify", classifyRequest{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_CreatesSessionAndKeepsTranscript(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/v1/chat", chatRequest{Query: "I feel lonely"})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[chatResponse](t, w)
	require.NotEmpty(t, first.SessionID)
	assert.Equal(t, triage.LabelNegative, first.Label)
	assert.Equal(t, triage.NegativeReply, first.Reply)

	w = do(t, srv, http.MethodPost, "/v1/chat", chatRequest{SessionID: first.SessionID, Query: "I want to die"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[chatResponse](t, w)
	assert.True(t, second.IsCrisis)
	assert.Equal(t, triage.CrisisMessage, second.Reply)

	w = do(t, srv, http.MethodGet, "/v1/sessions/"+first.SessionID+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := decode[[]messageResponse](t, w)
	require.Len(t, msgs, 4)
	assert.Equal(t, "I feel lonely", msgs[0].Text)
	assert.Equal(t, "assistant", msgs[3].Role)
	assert.True(t, msgs[3].IsCrisis)

	w = do(t, srv, http.MethodGet, "/v1/sessions/"+first.SessionID+"/messages?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]messageResponse](t, w), 2)
}

func TestChat_Errors(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/v1/chat", chatRequest{SessionID: "missing", Query: "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, "/v1/chat", chatRequest{Query: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodGet, "/v1/sessions/missing/messages", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_CreateAndList(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[sessionResponse](t, w)
	assert.Equal(t, "http", created.Channel)

	w = do(t, srv, http.MethodGet, "/v1/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]sessionResponse](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, created.SessionID, list[0].SessionID)
}

func TestScreeningQuestions(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/v1/screenings/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Questions   []questionResponse       `json:"questions"`
		AnswerScale []screening.AnswerOption `json:"answer_scale"`
		Disclaimer  string                   `json:"disclaimer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Questions, screening.NumQuestions)
	assert.Equal(t, 1, body.Questions[0].Index)
	assert.Len(t, body.AnswerScale, 4)
	assert.Equal(t, screening.Disclaimer, body.Disclaimer)
}

func TestScreening_FullFlow(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/v1/screenings", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	started := decode[assessment.Progress](t, w)
	require.NotEmpty(t, started.ScreeningID)
	assert.Equal(t, 1, started.Step.Index)
	path := "/v1/screenings/" + started.ScreeningID + "/answers"

	w = do(t, srv, http.MethodPost, path, map[string]any{"answer": 7})
	require.Equal(t, http.StatusOK, w.Code)
	retry := decode[assessment.Progress](t, w)
	assert.Equal(t, screening.StepRetry, retry.Step.Kind)
	assert.Equal(t, screening.RetryPrompt, retry.Step.Message)

	var last assessment.Progress
	for i := 0; i < screening.NumQuestions; i++ {
		// Mix numeric and string answers.
		var answer any = 3
		if i%2 == 1 {
			answer = "3"
		}
		w = do(t, srv, http.MethodPost, path, map[string]any{"answer": answer})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		last = decode[assessment.Progress](t, w)
	}

	require.Equal(t, screening.StepScored, last.Step.Kind)
	require.NotNil(t, last.Step.Result)
	assert.Equal(t, 27, last.Step.Result.Total)
	assert.Equal(t, screening.BandSevere, last.Step.Result.Band)
	assert.Equal(t, screening.Disclaimer, last.Step.Result.Disclaimer)

	w = do(t, srv, http.MethodPost, path, map[string]any{"answer": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/v1/screenings/history?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]screeningRecordResponse](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, 27, history[0].Total)
	assert.Equal(t, "http", history[0].Channel)
}

func TestScreening_Exit(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/v1/screenings", nil)
	started := decode[assessment.Progress](t, w)

	w = do(t, srv, http.MethodPost, "/v1/screenings/"+started.ScreeningID+"/answers", map[string]any{"answer": "exit"})
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[assessment.Progress](t, w)
	assert.Equal(t, screening.StepAbandoned, p.Step.Kind)
	assert.Equal(t, screening.ExitMessage, p.Step.Message)

	w = do(t, srv, http.MethodGet, "/v1/screenings/history", nil)
	assert.Empty(t, decode[[]screeningRecordResponse](t, w))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveListener(ctx, ln, handler, observability.Discard())
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
