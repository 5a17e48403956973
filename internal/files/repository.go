package files

import (
	"context"

	"github.com/dmitrijs2005/filestore/internal/models"
)

// Repository is the statement layer under the file lifecycle. Mutations are
// single atomic server-side updates: size and updated_at are computed by the
// store in the same statement as the data change, so a failed attempt never
// leaves them inconsistent with blob.
type Repository interface {
	// Insert persists a new row and returns the server-assigned id.
	Insert(ctx context.Context, f *models.File) (int64, error)
	// GetByID fetches one row, with or without the blob column.
	GetByID(ctx context.Context, id int64, withBlob bool) (*models.File, error)
	// Append concatenates data onto the stored blob, bumping size and updated_at.
	Append(ctx context.Context, id int64, data []byte) error
	// Overwrite replaces the blob and size, refreshing updated_at.
	Overwrite(ctx context.Context, id int64, data []byte) error
	// Rename updates the display name, refreshing updated_at.
	Rename(ctx context.Context, id int64, name string) error
	// Delete removes the row.
	Delete(ctx context.Context, id int64) error
}
