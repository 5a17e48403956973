package files

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filestore/internal/common"
	"github.com/dmitrijs2005/filestore/internal/filex"
	"github.com/dmitrijs2005/filestore/internal/models"
)

// File is a live handle on one stored row. It holds an attribute snapshot
// that is replaced wholesale on each reload, plus a terminal frozen flag set
// the moment a delete succeeds.
//
// A File is not safe for concurrent use without external synchronization.
// Two handles on the same row may observe different snapshots until each
// reloads; concurrent mutations of the row itself are serialized by the
// store's row locks, not by anything client-side.
type File struct {
	repo        Repository
	maxFileSize int64
	snap        models.File
	frozen      bool
}

func (f *File) ID() int64            { return f.snap.ID }
func (f *File) Name() string         { return f.snap.Name }
func (f *File) Size() int64          { return f.snap.Size }
func (f *File) Blob() []byte         { return f.snap.Blob }
func (f *File) CreatedAt() time.Time { return f.snap.CreatedAt }
func (f *File) UpdatedAt() time.Time { return f.snap.UpdatedAt }

// Frozen reports whether the row behind this handle has been deleted.
func (f *File) Frozen() bool { return f.frozen }

// Append concatenates data onto the stored blob. The resulting size must
// stay within the configured maximum. The store computes size and updated_at
// in the same statement; afterwards the non-blob fields are reloaded to pick
// up the authoritative values, and the in-memory blob is extended locally
// rather than re-fetched.
func (f *File) Append(ctx context.Context, data []byte) error {
	if f.frozen {
		return common.ErrCannotEditFrozenFile
	}
	if resulting := f.snap.Size + int64(len(data)); resulting > f.maxFileSize {
		return fmt.Errorf("%w: %d > %d bytes", common.ErrDataTooLarge, resulting, f.maxFileSize)
	}
	if err := f.repo.Append(ctx, f.snap.ID, data); err != nil {
		return err
	}
	blob := make([]byte, 0, len(f.snap.Blob)+len(data))
	blob = append(append(blob, f.snap.Blob...), data...)
	if err := f.Reload(ctx, false); err != nil {
		return err
	}
	f.snap.Blob = blob
	return nil
}

// Overwrite replaces the blob contents, subject to the configured maximum
// size. The new bytes are already known, so only the remaining derived
// fields are reloaded.
func (f *File) Overwrite(ctx context.Context, data []byte) error {
	if f.frozen {
		return common.ErrCannotEditFrozenFile
	}
	if int64(len(data)) > f.maxFileSize {
		return fmt.Errorf("%w: %d > %d bytes", common.ErrDataTooLarge, len(data), f.maxFileSize)
	}
	if err := f.repo.Overwrite(ctx, f.snap.ID, data); err != nil {
		return err
	}
	blob := append([]byte(nil), data...)
	if err := f.Reload(ctx, false); err != nil {
		return err
	}
	f.snap.Blob = blob
	return nil
}

// Rename changes the display name. Blob and size are untouched.
func (f *File) Rename(ctx context.Context, name string) error {
	if f.frozen {
		return common.ErrCannotEditFrozenFile
	}
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", common.ErrValidation)
	}
	if err := f.repo.Rename(ctx, f.snap.ID, name); err != nil {
		return err
	}
	return f.Reload(ctx, false)
}

// Delete removes the row and freezes the handle permanently. Every further
// mutation fails with common.ErrCannotEditFrozenFile before reaching the
// store, so a double delete never re-issues the statement.
func (f *File) Delete(ctx context.Context) error {
	if f.frozen {
		return common.ErrCannotEditFrozenFile
	}
	if err := f.repo.Delete(ctx, f.snap.ID); err != nil {
		return err
	}
	f.frozen = true
	return nil
}

// Reload re-fetches the row and replaces the snapshot wholesale. This is the
// single reconciliation point after mutations: server-computed fields always
// win over whatever the snapshot held. With includeBlob false the blob
// column stays out of the projection and the current in-memory bytes are
// carried over.
func (f *File) Reload(ctx context.Context, includeBlob bool) error {
	snap, err := f.repo.GetByID(ctx, f.snap.ID, includeBlob)
	if err != nil {
		return err
	}
	if !includeBlob {
		snap.Blob = f.snap.Blob
	}
	f.snap = *snap
	return nil
}

// ExportToPath writes the blob bytes to the local filesystem.
func (f *File) ExportToPath(path string) error {
	return filex.WriteAll(path, f.snap.Blob)
}
