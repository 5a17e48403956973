package files

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/filestore/internal/common"
	"github.com/dmitrijs2005/filestore/internal/filex"
	"github.com/dmitrijs2005/filestore/internal/logging"
	"github.com/dmitrijs2005/filestore/internal/models"
)

// Service owns the lifecycle of stored files: creation with validation and
// size limits, filesystem import, and lookup. Handles it returns are not
// safe for concurrent use without external synchronization; the pool under
// the repository may serve any number of concurrent services.
type Service struct {
	repo        Repository
	maxFileSize int64
	log         logging.Logger
}

// NewService constructs a Service with the given size cap in bytes.
func NewService(repo Repository, maxFileSize int64, log logging.Logger) *Service {
	return &Service{repo: repo, maxFileSize: maxFileSize, log: log}
}

// Overrides optionally replaces attributes that Add would otherwise fill
// itself. Nil fields keep their defaults. Timestamps are normalized to UTC
// with second precision before submission.
type Overrides struct {
	Size      *int64
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Add validates and persists a new file and returns a live handle.
//
// The handle is built from the submitted attributes plus the id the insert
// confirmed; no readback round trip is needed because every other field is
// already known on this side.
func (s *Service) Add(ctx context.Context, name string, data []byte, ov *Overrides) (*File, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrValidation)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", common.ErrDataTooLarge, len(data), s.maxFileSize)
	}

	now := time.Now().UTC().Truncate(time.Second)
	snap := models.File{
		Name:      name,
		Blob:      data,
		Size:      int64(len(data)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ov != nil {
		if ov.Size != nil {
			snap.Size = *ov.Size
		}
		if ov.CreatedAt != nil {
			snap.CreatedAt = ov.CreatedAt.UTC().Truncate(time.Second)
		}
		if ov.UpdatedAt != nil {
			snap.UpdatedAt = ov.UpdatedAt.UTC().Truncate(time.Second)
		}
	}

	id, err := s.repo.Insert(ctx, &snap)
	if err != nil {
		return nil, err
	}
	snap.ID = id

	s.log.Debug(ctx, "file added", "id", id, "name", name, "size", snap.Size)
	return s.newFile(snap), nil
}

// AddFromPath imports a file from the local filesystem. The record is named
// after the path's final segment and the source's timestamps are carried
// over as overrides.
func (s *Service) AddFromPath(ctx context.Context, path string) (*File, error) {
	if !filex.Exists(path) {
		return nil, fmt.Errorf("%w: no file at %s", common.ErrValidation, path)
	}
	times, err := filex.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := filex.ReadAll(path)
	if err != nil {
		return nil, err
	}
	ov := &Overrides{CreatedAt: &times.CreatedAt, UpdatedAt: &times.ModifiedAt}
	return s.Add(ctx, filepath.Base(path), data, ov)
}

// FindByID fetches the full row for id and returns a live handle.
// Fails with common.ErrNotFound when no row matches.
func (s *Service) FindByID(ctx context.Context, id int64) (*File, error) {
	snap, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	return s.newFile(*snap), nil
}

func (s *Service) newFile(snap models.File) *File {
	return &File{repo: s.repo, maxFileSize: s.maxFileSize, snap: snap}
}
