// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by *sql.DB, *sql.Tx and *sql.Conn,
// a helper to run functions on a single held connection, and a retrying
// statement executor.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// *sql.DB, *sql.Tx and *sql.Conn all satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithConn checks a single connection out of the pool, runs fn with it, and
// returns it to the pool afterwards.
//
// Statements whose results are scoped to the issuing connection (sequence
// readbacks in particular) must go through this helper: on a pooled handle,
// consecutive statements may land on different connections and the readback
// could observe another caller's statement.
//
// Typical use:
//
//	err := dbx.WithConn(ctx, db, func(ctx context.Context, conn dbx.DBTX) error {
//	    if _, err := conn.ExecContext(ctx, "INSERT ..."); err != nil {
//	        return err
//	    }
//	    return conn.QueryRowContext(ctx, "SELECT lastval()").Scan(&id)
//	})
func WithConn(ctx context.Context, db *sql.DB, fn func(ctx context.Context, conn DBTX) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn)
}
