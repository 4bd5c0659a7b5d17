package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/mindsync/internal/db"
	"github.com/alexanderramin/mindsync/internal/domain"
)

// SQLiteChatSessionRepo implements ChatSessionRepo using a SQLite database.
type SQLiteChatSessionRepo struct {
	db db.DBTX
}

// NewSQLiteChatSessionRepo creates a new SQLiteChatSessionRepo.
func NewSQLiteChatSessionRepo(db db.DBTX) *SQLiteChatSessionRepo {
	return &SQLiteChatSessionRepo{db: db}
}

func (r *SQLiteChatSessionRepo) Create(ctx context.Context, s *domain.ChatSession) error {
	query := `INSERT INTO chat_sessions (id, channel, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, s.ID, string(s.Channel), formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting chat session: %w", err)
	}
	return nil
}

func (r *SQLiteChatSessionRepo) GetByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	query := `SELECT id, channel, created_at, updated_at FROM chat_sessions WHERE id = ?`
	s, err := scanChatSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chat session: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

// Touch bumps updated_at to now.
func (r *SQLiteChatSessionRepo) Touch(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("touching chat session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("chat session: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteChatSessionRepo) ListRecent(ctx context.Context, limit int) ([]*domain.ChatSession, error) {
	query := `SELECT id, channel, created_at, updated_at FROM chat_sessions ORDER BY updated_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, clampLimit(limit, 20))
	if err != nil {
		return nil, fmt.Errorf("listing chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.ChatSession
	for rows.Next() {
		s, err := scanChatSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteChatSessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting chat session: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChatSession(row rowScanner) (*domain.ChatSession, error) {
	var s domain.ChatSession
	var channel, createdAt, updatedAt string
	if err := row.Scan(&s.ID, &channel, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning chat session: %w", err)
	}
	s.Channel = domain.Channel(channel)

	var err error
	if s.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &s, nil
}
