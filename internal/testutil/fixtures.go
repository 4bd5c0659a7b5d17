package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/mindsync/internal/domain"
)

// NewTestChatSession returns a CLI chat session created now.
func NewTestChatSession() *domain.ChatSession {
	now := time.Now().UTC()
	return &domain.ChatSession{
		ID:        uuid.New().String(),
		Channel:   domain.ChannelCLI,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Message options
type MessageOption func(*domain.ChatMessage)

func WithRole(r domain.MessageRole) MessageOption {
	return func(m *domain.ChatMessage) {
		m.Role = r
	}
}

func WithTriage(label string, score float64, crisis bool) MessageOption {
	return func(m *domain.ChatMessage) {
		m.Label = label
		m.Score = score
		m.IsCrisis = crisis
	}
}

func WithCreatedAt(t time.Time) MessageOption {
	return func(m *domain.ChatMessage) {
		m.CreatedAt = t
	}
}

// NewTestMessage returns a user message in sessionID.
func NewTestMessage(sessionID, text string, opts ...MessageOption) *domain.ChatMessage {
	m := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Text:      text,
		Label:     "NEUTRAL",
		Score:     0.6,
		CreatedAt: time.Now().UTC(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// NewTestScreening returns a completed screening record.
func NewTestScreening(total int, band string, completedAt time.Time) *domain.ScreeningRecord {
	return &domain.ScreeningRecord{
		ID:          uuid.New().String(),
		Channel:     domain.ChannelCLI,
		Total:       total,
		Band:        band,
		Answers:     []int{1, 1, 1, 1, 1, 1, 1, 1, 1},
		CompletedAt: completedAt,
	}
}
