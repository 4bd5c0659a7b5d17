package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/mindsync/internal/db"
)

// FailingUoW is a test UnitOfWork whose transaction fails any ExecContext
// whose SQL contains Match, after Skip matching calls have gone through.
// Reads pass through untouched. It lets rollback tests break a multi-write
// operation at a precise statement.
type FailingUoW struct {
	DB    *sql.DB
	Match string
	Skip  int
	Err   error
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingExec{DBTX: tx, match: u.Match, skip: u.Skip, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingExec struct {
	db.DBTX
	match string
	skip  int
	seen  int
	err   error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, f.match) {
		f.seen++
		if f.seen > f.skip {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
