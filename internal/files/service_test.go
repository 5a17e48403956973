package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filestore/internal/common"
)

const testMaxFileSize = 1 << 20

func newTestService(repo Repository) *Service {
	return NewService(repo, testMaxFileSize, testLogger())
}

func TestAdd_Success(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	f, err := svc.Add(context.Background(), "notes.txt", []byte("hello"), nil)
	require.NoError(t, err)

	require.Equal(t, int64(1), f.ID())
	require.Equal(t, "notes.txt", f.Name())
	require.Equal(t, []byte("hello"), f.Blob())
	require.Equal(t, int64(5), f.Size())
	require.False(t, f.Frozen())

	require.Equal(t, time.UTC, f.CreatedAt().Location())
	require.Zero(t, f.CreatedAt().Nanosecond())
	require.Equal(t, f.CreatedAt(), f.UpdatedAt())
}

func TestAdd_EmptyNameFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Add(context.Background(), "", []byte("x"), nil)
	require.ErrorIs(t, err, common.ErrValidation)
	require.Zero(t, repo.calls, "no statement may be issued")
}

func TestAdd_TooLargeFails(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 4, testLogger())

	_, err := svc.Add(context.Background(), "big.bin", []byte("hello"), nil)
	require.ErrorIs(t, err, common.ErrDataTooLarge)
	require.Zero(t, repo.calls, "no insert may be performed")
}

func TestAdd_EmptyBlobAllowed(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	f, err := svc.Add(context.Background(), "empty.txt", nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), f.Size())
}

func TestAdd_Overrides(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created := time.Date(2020, 3, 4, 5, 6, 7, 890, time.FixedZone("EET", 2*3600))
	updated := created.Add(time.Hour)
	size := int64(99)

	f, err := svc.Add(context.Background(), "old.txt", []byte("data"), &Overrides{
		Size:      &size,
		CreatedAt: &created,
		UpdatedAt: &updated,
	})
	require.NoError(t, err)

	require.Equal(t, int64(99), f.Size())
	require.Equal(t, created.UTC().Truncate(time.Second), f.CreatedAt())
	require.Equal(t, updated.UTC().Truncate(time.Second), f.UpdatedAt())
	require.Equal(t, time.UTC, f.CreatedAt().Location())
}

func TestAdd_ThenFindByIDRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	added, err := svc.Add(context.Background(), "notes.txt", []byte("hello"), nil)
	require.NoError(t, err)

	found, err := svc.FindByID(context.Background(), added.ID())
	require.NoError(t, err)

	require.Equal(t, added.Name(), found.Name())
	require.Equal(t, added.Size(), found.Size())
	require.Equal(t, added.Blob(), found.Blob())
}

func TestAddFromPath_Success(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	dir := t.TempDir()
	path := filepath.Join(dir, "report.bin")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	fi, err := os.Stat(path)
	require.NoError(t, err)

	f, err := svc.AddFromPath(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, "report.bin", f.Name())
	require.Equal(t, []byte("payload"), f.Blob())
	require.Equal(t, int64(7), f.Size())

	want := fi.ModTime().UTC().Truncate(time.Second)
	require.True(t, f.CreatedAt().Equal(want), "created_at should carry the source's timestamp")
	require.True(t, f.UpdatedAt().Equal(want))
}

func TestAddFromPath_MissingFails(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.AddFromPath(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, common.ErrValidation)
	require.Zero(t, repo.calls)
}

func TestFindByID_NotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.FindByID(context.Background(), 12345)
	require.ErrorIs(t, err, common.ErrNotFound)
}
