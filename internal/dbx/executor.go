package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/filestore/internal/common"
	"github.com/dmitrijs2005/filestore/internal/logging"
)

const (
	// 3 attempts total: the first one plus two retries.
	execMaxRetries = 2
	execBackoff    = 100 * time.Millisecond
)

// Executor runs single statements with bounded retry on transient backend
// errors. It knows nothing about the statements it runs and is safe for
// concurrent use by callers sharing the pool.
//
// Callers needing multi-statement guarantees (insert-then-identity) must use
// WithConn instead: each execution here may land on a different pooled
// connection.
type Executor struct {
	db  DBTX
	log logging.Logger
}

// NewExecutor constructs an Executor bound to the given DBTX.
func NewExecutor(db DBTX, log logging.Logger) *Executor {
	return &Executor{db: db, log: log}
}

// Exec submits a mutating statement, retrying the same statement on
// transient backend failures. Non-transient errors propagate immediately;
// exhausted retries surface wrapped in common.ErrBackendUnavailable.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmtID := uuid.NewString()

	var res sql.Result
	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		var err error
		res, err = e.db.ExecContext(ctx, query, args...)
		return e.classify(ctx, stmtID, err)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Query submits a row-returning statement with the same retry policy as
// Exec. The caller owns the returned rows.
func (e *Executor) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmtID := uuid.NewString()

	var rows *sql.Rows
	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		var err error
		rows, err = e.db.QueryContext(ctx, query, args...)
		return e.classify(ctx, stmtID, err)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (e *Executor) backoff() retry.Backoff {
	return retry.WithMaxRetries(execMaxRetries, retry.NewConstant(execBackoff))
}

// classify turns a statement error into the tagged result the retry loop
// interprets: nil (success), retryable (transient backend failure) or fatal
// (everything else, surfaced as-is).
func (e *Executor) classify(ctx context.Context, stmtID string, err error) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		e.log.Warn(ctx, "transient backend error", "statement_id", stmtID, "error", err)
		return retry.RetryableError(fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err))
	}
	return err
}
