package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/mindsync/internal/db"
	"github.com/alexanderramin/mindsync/internal/domain"
)

// SQLiteMessageRepo implements MessageRepo using a SQLite database.
type SQLiteMessageRepo struct {
	db db.DBTX
}

// NewSQLiteMessageRepo creates a new SQLiteMessageRepo.
func NewSQLiteMessageRepo(db db.DBTX) *SQLiteMessageRepo {
	return &SQLiteMessageRepo{db: db}
}

func (r *SQLiteMessageRepo) Append(ctx context.Context, m *domain.ChatMessage) error {
	query := `INSERT INTO chat_messages (id, session_id, seq, role, text, label, score, is_crisis, created_at)
		SELECT ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?
		FROM chat_messages WHERE session_id = ?`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.SessionID,
		string(m.Role),
		m.Text,
		m.Label,
		m.Score,
		boolToInt(m.IsCrisis),
		formatTime(m.CreatedAt),
		m.SessionID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return fmt.Errorf("chat session %s: %w", m.SessionID, ErrNotFound)
		}
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

func (r *SQLiteMessageRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, session_id, role, text, label, score, is_crisis, created_at FROM (
			SELECT id, session_id, seq, role, text, label, score, is_crisis, created_at
			FROM chat_messages WHERE session_id = ?
			ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		var role, createdAt string
		var isCrisis int
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Text, &m.Label, &m.Score, &isCrisis, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		m.Role = domain.MessageRole(role)
		m.IsCrisis = intToBool(isCrisis)
		if m.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat messages: %w", err)
	}
	return msgs, nil
}
