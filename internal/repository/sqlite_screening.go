package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/mindsync/internal/db"
	"github.com/alexanderramin/mindsync/internal/domain"
)

// SQLiteScreeningRepo implements ScreeningRepo using a SQLite database.
type SQLiteScreeningRepo struct {
	db db.DBTX
}

// NewSQLiteScreeningRepo creates a new SQLiteScreeningRepo.
func NewSQLiteScreeningRepo(db db.DBTX) *SQLiteScreeningRepo {
	return &SQLiteScreeningRepo{db: db}
}

func (r *SQLiteScreeningRepo) Create(ctx context.Context, s *domain.ScreeningRecord) error {
	query := `INSERT INTO screening_results (id, channel, total, band, answers, completed_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		string(s.Channel),
		s.Total,
		s.Band,
		joinInts(s.Answers),
		formatTime(s.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting screening result: %w", err)
	}
	return nil
}

func (r *SQLiteScreeningRepo) GetByID(ctx context.Context, id string) (*domain.ScreeningRecord, error) {
	query := `SELECT id, channel, total, band, answers, completed_at FROM screening_results WHERE id = ?`
	rec, err := scanScreening(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("screening result: %w", ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

// ListRecent returns the newest results first.
func (r *SQLiteScreeningRepo) ListRecent(ctx context.Context, limit int) ([]*domain.ScreeningRecord, error) {
	query := `SELECT id, channel, total, band, answers, completed_at
		FROM screening_results ORDER BY completed_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, clampLimit(limit, 10))
	if err != nil {
		return nil, fmt.Errorf("listing screening results: %w", err)
	}
	defer rows.Close()

	var out []*domain.ScreeningRecord
	for rows.Next() {
		rec, err := scanScreening(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating screening results: %w", err)
	}
	return out, nil
}

func scanScreening(row rowScanner) (*domain.ScreeningRecord, error) {
	var rec domain.ScreeningRecord
	var channel, answers, completedAt string
	if err := row.Scan(&rec.ID, &channel, &rec.Total, &rec.Band, &answers, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning screening result: %w", err)
	}
	rec.Channel = domain.Channel(channel)

	var err error
	if rec.Answers, err = splitInts(answers); err != nil {
		return nil, err
	}
	if rec.CompletedAt, err = parseTime(completedAt, "completed_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
