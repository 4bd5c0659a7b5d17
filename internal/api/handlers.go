package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/alexanderramin/mindsync/internal/assessment"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/screening"
	"github.com/alexanderramin/mindsync/internal/triage"
)

type handlers struct {
	classifier   *triage.Classifier
	conversation *conversation.Service
	screenings   *assessment.Service
	logger       *slog.Logger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"external_triage":   h.classifier.HasExternal(),
		"companion_enabled": h.conversation.HasCompanion(),
	})
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	triage.SentimentResult
	Reply string `json:"reply"`
}

func (h *handlers) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	res := h.classifier.Classify(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, classifyResponse{SentimentResult: res, Reply: triage.SelectReply(res)})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type chatResponse struct {
	SessionID   string       `json:"session_id"`
	Reply       string       `json:"reply"`
	ReplySource string       `json:"reply_source"`
	Label       triage.Label `json:"label"`
	Score       float64      `json:"score"`
	IsCrisis    bool         `json:"is_crisis"`
}

// chat opens a session on the fly when session_id is empty.
func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := h.conversation.StartSession(r.Context(), domain.ChannelHTTP)
		if err != nil {
			writeServiceError(w, r, h.logger, err)
			return
		}
		sessionID = sess.ID
	}

	reply, err := h.conversation.SendMessage(r.Context(), sessionID, req.Query)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:   reply.SessionID,
		Reply:       reply.Text,
		ReplySource: string(reply.Source),
		Label:       reply.Result.Label,
		Score:       reply.Result.Score,
		IsCrisis:    reply.Result.IsCrisis,
	})
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSessionResponse(s *domain.ChatSession) sessionResponse {
	return sessionResponse{
		SessionID: s.ID,
		Channel:   string(s.Channel),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.conversation.StartSession(r.Context(), domain.ChannelHTTP)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.conversation.RecentSessions(r.Context(), queryLimit(r, 20))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Label     string    `json:"label"`
	Score     float64   `json:"score"`
	IsCrisis  bool      `json:"is_crisis"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	msgs, err := h.conversation.Transcript(r.Context(), id, queryLimit(r, 0))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Text:      m.Text,
			Label:     m.Label,
			Score:     m.Score,
			IsCrisis:  m.IsCrisis,
			CreatedAt: m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type questionResponse struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

func (h *handlers) screeningQuestions(w http.ResponseWriter, r *http.Request) {
	qs := screening.Questions()
	out := make([]questionResponse, len(qs))
	for i, q := range qs {
		out[i] = questionResponse{Index: i + 1, Text: q}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"instructions": screening.Instructions,
		"questions":    out,
		"answer_scale": screening.AnswerScale(),
		"disclaimer":   screening.Disclaimer,
	})
}

func (h *handlers) startScreening(w http.ResponseWriter, r *http.Request) {
	progress, err := h.screenings.Start(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, progress)
}

type answerRequest struct {
	Answer json.RawMessage `json:"answer"`
}

// rawAnswer accepts both 2 and "2"; anything else is passed through as
// text so the state machine can ask for a retry.
func (a answerRequest) rawAnswer() string {
	var s string
	if err := json.Unmarshal(a.Answer, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(a.Answer))
}

func (h *handlers) answerScreening(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	progress, err := h.screenings.Answer(r.Context(), mux.Vars(r)["id"], req.rawAnswer())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

type screeningRecordResponse struct {
	ID          string    `json:"id"`
	Channel     string    `json:"channel"`
	Total       int       `json:"total"`
	Band        string    `json:"band"`
	Answers     []int     `json:"answers"`
	CompletedAt time.Time `json:"completed_at"`
}

func (h *handlers) screeningHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.screenings.History(r.Context(), queryLimit(r, 20))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	out := make([]screeningRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, screeningRecordResponse{
			ID:          rec.ID,
			Channel:     string(rec.Channel),
			Total:       rec.Total,
			Band:        rec.Band,
			Answers:     rec.Answers,
			CompletedAt: rec.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
