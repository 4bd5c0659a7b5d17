package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/mindsync/internal/domain"
)

// ErrNotFound is returned when a row looked up by id does not exist.
var ErrNotFound = errors.New("not found")

type ChatSessionRepo interface {
	Create(ctx context.Context, s *domain.ChatSession) error
	GetByID(ctx context.Context, id string) (*domain.ChatSession, error)
	Touch(ctx context.Context, id string) error
	ListRecent(ctx context.Context, limit int) ([]*domain.ChatSession, error)
	Delete(ctx context.Context, id string) error
}

type MessageRepo interface {
	// Append stores m after the session's last message.
	Append(ctx context.Context, m *domain.ChatMessage) error
	// ListBySession returns the last limit messages, oldest first. limit <= 0
	// returns all of them.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error)
}

type ScreeningRepo interface {
	Create(ctx context.Context, r *domain.ScreeningRecord) error
	GetByID(ctx context.Context, id string) (*domain.ScreeningRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.ScreeningRecord, error)
}
