// Package db wires the PostgreSQL connection pool, schema migrations and
// repositories together.
package db

import (
	"context"

	"github.com/dmitrijs2005/filestore/internal/files"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Files() files.Repository
	Close() error
}
