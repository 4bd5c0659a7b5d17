// Package conversation runs one chat turn: triage, reply selection and
// transcript persistence.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/mindsync/internal/db"
	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/llm"
	"github.com/alexanderramin/mindsync/internal/observability"
	"github.com/alexanderramin/mindsync/internal/repository"
	"github.com/alexanderramin/mindsync/internal/triage"
)

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Companion writes free-form replies. intelligence.CompanionService implements it.
type Companion interface {
	Reply(ctx context.Context, history []llm.Message, message string, result triage.SentimentResult) (string, error)
}

// ReplySource says which path produced a reply.
type ReplySource string

const (
	ReplyCrisis    ReplySource = "crisis"
	ReplyCompanion ReplySource = "companion"
	ReplyCanned    ReplySource = "canned"
)

// Reply is the outcome of SendMessage.
type Reply struct {
	SessionID string                 `json:"session_id"`
	Text      string                 `json:"reply"`
	Source    ReplySource            `json:"reply_source"`
	Result    triage.SentimentResult `json:"triage"`
}

type Service struct {
	classifier   *triage.Classifier
	sessions     repository.ChatSessionRepo
	messages     repository.MessageRepo
	uow          db.UnitOfWork
	companion    Companion
	historyLimit int
	observer     observability.UseCaseObserver
	now          func() time.Time
}

type Option func(*Service)

// WithCompanion enables LLM replies for non-crisis turns.
func WithCompanion(c Companion) Option {
	return func(s *Service) { s.companion = c }
}

// WithHistoryLimit caps how many stored turns are sent to the companion.
// Zero sends none.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.historyLimit = n
		}
	}
}

func WithObserver(obs observability.UseCaseObserver) Option {
	return func(s *Service) { s.observer = observability.ObserverOrNoop(obs) }
}

func NewService(
	classifier *triage.Classifier,
	sessions repository.ChatSessionRepo,
	messages repository.MessageRepo,
	uow db.UnitOfWork,
	opts ...Option,
) *Service {
	if classifier == nil {
		classifier = triage.NewClassifier(nil)
	}
	s := &Service{
		classifier:   classifier,
		sessions:     sessions,
		messages:     messages,
		uow:          uow,
		historyLimit: 20,
		observer:     observability.NoopUseCaseObserver{},
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasCompanion reports whether replies can come from the LLM.
func (s *Service) HasCompanion() bool {
	return s.companion != nil
}

// StartSession opens a new chat session.
func (s *Service) StartSession(ctx context.Context, channel domain.Channel) (*domain.ChatSession, error) {
	now := s.now()
	sess := &domain.ChatSession{
		ID:        uuid.New().String(),
		Channel:   channel,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	return sess, nil
}

// SendMessage triages text, picks a reply and stores both turns. Crisis
// turns always get triage.CrisisMessage and never reach the companion. A
// failing companion degrades to the canned reply for the label.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (reply *Reply, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID}
	defer func() {
		s.observer.ObserveUseCase(ctx, observability.UseCaseEvent{
			Name:      "send-message",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if _, err = s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("chat session %s: %w", sessionID, err)
	}

	result := s.classifier.Classify(ctx, text)
	fields["label"] = string(result.Label)
	fields["triage_source"] = string(result.Source)

	reply = &Reply{SessionID: sessionID, Result: result}
	switch {
	case result.IsCrisis:
		reply.Text, reply.Source = triage.CrisisMessage, ReplyCrisis
	case s.companion != nil:
		reply.Text, reply.Source = s.companionReply(ctx, sessionID, text, result, fields)
	default:
		reply.Text, reply.Source = triage.SelectReply(result), ReplyCanned
	}
	fields["reply_source"] = string(reply.Source)

	if err = s.record(ctx, sessionID, text, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *Service) companionReply(ctx context.Context, sessionID, text string, result triage.SentimentResult, fields map[string]any) (string, ReplySource) {
	var history []llm.Message
	if s.historyLimit > 0 {
		stored, err := s.messages.ListBySession(ctx, sessionID, s.historyLimit)
		if err != nil {
			fields["history_error"] = err.Error()
		}
		history = toLLMHistory(stored)
	}

	out, err := s.companion.Reply(ctx, history, text, result)
	if err != nil {
		fields["companion_error"] = err.Error()
		return triage.SelectReply(result), ReplyCanned
	}
	return out, ReplyCompanion
}

func (s *Service) record(ctx context.Context, sessionID, text string, reply *Reply) error {
	now := s.now()
	label := string(reply.Result.Label)
	user := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Text:      text,
		Label:     label,
		Score:     reply.Result.Score,
		IsCrisis:  reply.Result.IsCrisis,
		CreatedAt: now,
	}
	assistant := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Text:      reply.Text,
		Label:     label,
		Score:     reply.Result.Score,
		IsCrisis:  reply.Result.IsCrisis,
		CreatedAt: now,
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMessages := repository.NewSQLiteMessageRepo(tx)
		txSessions := repository.NewSQLiteChatSessionRepo(tx)

		if err := txMessages.Append(ctx, user); err != nil {
			return fmt.Errorf("storing user turn: %w", err)
		}
		if err := txMessages.Append(ctx, assistant); err != nil {
			return fmt.Errorf("storing reply: %w", err)
		}
		return txSessions.Touch(ctx, sessionID)
	})
}

// Transcript returns the last limit turns of a session, oldest first.
func (s *Service) Transcript(ctx context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("chat session %s: %w", sessionID, err)
	}
	return s.messages.ListBySession(ctx, sessionID, limit)
}

// RecentSessions lists sessions by last activity, newest first.
func (s *Service) RecentSessions(ctx context.Context, limit int) ([]*domain.ChatSession, error) {
	return s.sessions.ListRecent(ctx, limit)
}

func toLLMHistory(msgs []*domain.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleUser
		if m.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	return out
}
