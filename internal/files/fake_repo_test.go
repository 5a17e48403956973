package files

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filestore/internal/common"
	"github.com/dmitrijs2005/filestore/internal/models"
)

// fakeRepo emulates the store's server-side bookkeeping in memory: append
// and overwrite recompute size and updated_at the way the SQL statements do,
// and the clock advances one second per mutation.
type fakeRepo struct {
	nextID    int64
	rows      map[int64]*models.File
	clock     time.Time
	calls     int
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID: 1,
		rows:   map[int64]*models.File{},
		clock:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeRepo) Insert(_ context.Context, f *models.File) (int64, error) {
	r.calls++
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	id := r.nextID
	r.nextID++
	if f.UpdatedAt.After(r.clock) {
		r.clock = f.UpdatedAt
	}
	row := *f
	row.ID = id
	row.Blob = append([]byte(nil), f.Blob...)
	r.rows[id] = &row
	return id, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64, withBlob bool) (*models.File, error) {
	r.calls++
	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *row
	if withBlob {
		cp.Blob = append([]byte(nil), row.Blob...)
	} else {
		cp.Blob = nil
	}
	return &cp, nil
}

func (r *fakeRepo) Append(_ context.Context, id int64, data []byte) error {
	r.calls++
	row, ok := r.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	row.Blob = append(row.Blob, data...)
	row.Size += int64(len(data))
	row.UpdatedAt = r.tick()
	return nil
}

func (r *fakeRepo) Overwrite(_ context.Context, id int64, data []byte) error {
	r.calls++
	row, ok := r.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	row.Blob = append([]byte(nil), data...)
	row.Size = int64(len(data))
	row.UpdatedAt = r.tick()
	return nil
}

func (r *fakeRepo) Rename(_ context.Context, id int64, name string) error {
	r.calls++
	row, ok := r.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	row.Name = name
	row.UpdatedAt = r.tick()
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	r.calls++
	if _, ok := r.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

var _ Repository = (*fakeRepo)(nil)
