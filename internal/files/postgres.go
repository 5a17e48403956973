// Package files provides the PostgreSQL-backed repository and lifecycle
// service for files stored as database rows.
package files

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/filestore/internal/common"
	"github.com/dmitrijs2005/filestore/internal/dbx"
	"github.com/dmitrijs2005/filestore/internal/logging"
	"github.com/dmitrijs2005/filestore/internal/models"
)

// timestampFormat is the wire format for timestamp parameters. Values are
// normalized to UTC before formatting so writers in different zones produce
// comparable rows.
const timestampFormat = "2006-01-02 15:04:05"

const (
	insertMaxRetries = 2
	insertBackoff    = 100 * time.Millisecond
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// PostgresRepository implements file storage over database/sql with the pgx
// driver. Single statements run through the retrying executor; the insert
// protocol holds one connection for its two statements (see Insert).
type PostgresRepository struct {
	db   *sql.DB
	exec *dbx.Executor
	log  logging.Logger
}

// NewPostgresRepository constructs a repository bound to the given pool.
func NewPostgresRepository(db *sql.DB, log logging.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, exec: dbx.NewExecutor(db, log), log: log}
}

// Insert adds a row and reads back the assigned id.
//
// The INSERT and the identity readback must run on the same connection:
// lastval() reports the sequence value most recently generated on the
// issuing connection, and on a pooled handle the readback could otherwise
// observe another caller's insert. A readback of 0 means the insert did not
// register (sequences start at 1, so live identities are never 0); the whole
// insert is retried before failing with common.ErrInsertFailed.
//
// Zero readbacks and transient connection failures are budgeted separately:
// each of the three identity attempts carries its own three-attempt
// transient budget, so one dropped connection does not eat into the
// identity retries.
func (r *PostgresRepository) Insert(ctx context.Context, f *models.File) (int64, error) {
	var id int64
	identityBudget := retry.WithMaxRetries(insertMaxRetries, retry.NewConstant(insertBackoff))
	err := retry.Do(ctx, identityBudget, func(ctx context.Context) error {
		if err := r.insertOnce(ctx, f, &id); err != nil {
			return err
		}
		if id == 0 {
			r.log.Warn(ctx, "insert did not register, retrying", "name", f.Name)
			return retry.RetryableError(common.ErrInsertFailed)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// insertOnce runs one insert-plus-readback on a held connection, retrying
// transient failures within its own budget. Exhaustion surfaces wrapped in
// common.ErrBackendUnavailable, which the caller treats as fatal.
func (r *PostgresRepository) insertOnce(ctx context.Context, f *models.File, id *int64) error {
	const insertQuery = `
		INSERT INTO files (name, blob, size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`

	transientBudget := retry.WithMaxRetries(insertMaxRetries, retry.NewConstant(insertBackoff))
	return retry.Do(ctx, transientBudget, func(ctx context.Context) error {
		err := dbx.WithConn(ctx, r.db, func(ctx context.Context, conn dbx.DBTX) error {
			if _, err := conn.ExecContext(ctx, insertQuery,
				f.Name, f.Blob, f.Size, formatTimestamp(f.CreatedAt), formatTimestamp(f.UpdatedAt)); err != nil {
				return fmt.Errorf("insert error: %w", err)
			}
			return conn.QueryRowContext(ctx, `SELECT lastval();`).Scan(id)
		})
		if err != nil {
			if dbx.IsTransient(err) {
				r.log.Warn(ctx, "transient error during insert", "name", f.Name, "error", err)
				return retry.RetryableError(fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err))
			}
			return err
		}
		return nil
	})
}

// GetByID fetches the row for id. With withBlob false the blob column is
// left out of the projection and the returned snapshot has a nil Blob.
// The id travels as an integer parameter, never as statement text.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64, withBlob bool) (*models.File, error) {
	query := `SELECT id, name, size, created_at, updated_at FROM files WHERE id = $1;`
	if withBlob {
		query = `SELECT id, name, blob, size, created_at, updated_at FROM files WHERE id = $1;`
	}

	rows, err := r.exec.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to select file: %w", err)
		}
		return nil, common.ErrNotFound
	}

	var item models.File
	if withBlob {
		err = rows.Scan(&item.ID, &item.Name, &item.Blob, &item.Size, &item.CreatedAt, &item.UpdatedAt)
	} else {
		err = rows.Scan(&item.ID, &item.Name, &item.Size, &item.CreatedAt, &item.UpdatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan file: %w", err)
	}
	return &item, nil
}

// Append concatenates data onto the stored blob. Size and updated_at are
// computed server-side in the same statement, so two concurrent appenders
// never race a read-modify-write cycle; the store's row lock serializes them.
func (r *PostgresRepository) Append(ctx context.Context, id int64, data []byte) error {
	query := `
		UPDATE files
		SET blob = blob || $1, size = size + $2, updated_at = timezone('utc', now())
		WHERE id = $3;
	`
	res, err := r.exec.Exec(ctx, query, data, int64(len(data)), id)
	if err != nil {
		return fmt.Errorf("failed to append: %w", err)
	}
	return oneRowAffected(res)
}

// Overwrite replaces blob and size in one statement.
func (r *PostgresRepository) Overwrite(ctx context.Context, id int64, data []byte) error {
	query := `
		UPDATE files
		SET blob = $1, size = $2, updated_at = timezone('utc', now())
		WHERE id = $3;
	`
	res, err := r.exec.Exec(ctx, query, data, int64(len(data)), id)
	if err != nil {
		return fmt.Errorf("failed to overwrite: %w", err)
	}
	return oneRowAffected(res)
}

// Rename updates the display name.
func (r *PostgresRepository) Rename(ctx context.Context, id int64, name string) error {
	query := `UPDATE files SET name = $1, updated_at = timezone('utc', now()) WHERE id = $2;`
	res, err := r.exec.Exec(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return oneRowAffected(res)
}

// Delete removes the row.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM files WHERE id = $1;`
	res, err := r.exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return oneRowAffected(res)
}

func oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

var _ Repository = (*PostgresRepository)(nil)
