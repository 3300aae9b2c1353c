package vfsshim

import (
	"context"
	"io"

	"github.com/candrsn/sqlite-s3-query/internal/errs"
	"github.com/candrsn/sqlite-s3-query/internal/rangeio"
	"github.com/psanford/sqlite3vfs"
)

// File is the read-only file handle SQLite drives through its VFS
// callback surface. Every read is a fresh signed ranged GET against the
// pinned object version; there is no local caching.
type File struct {
	ctx        context.Context
	reader     *rangeio.Reader
	size       int64
	sectorSize int
}

// Close is a no-op: the underlying connection belongs to the Session,
// not to any one file handle, and outlives it.
func (f *File) Close() error {
	return nil
}

// ReadAt serves SQLite's xRead callback. A request that runs past the
// pinned object's length is truncated to what exists and the remainder
// of p is zero-filled, with io.EOF returned, matching the short-read
// convention SQLite's VFS contract expects at end of file.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off >= f.size {
		zero(p)
		return 0, io.EOF
	}

	want := int64(len(p))
	if off+want > f.size {
		want = f.size - off
	}

	data, err := f.reader.ReadRange(f.ctx, off, want)
	if err != nil {
		return 0, errs.RowError("reading database page", err)
	}
	n := copy(p, data)

	if want < int64(len(p)) {
		zero(p[n:])
		return n, io.EOF
	}
	return n, nil
}

// WriteAt always fails: the object is immutable for the session.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	return 0, errs.New("sqlite-s3-query: database is read-only")
}

// Truncate always fails: the object is immutable for the session.
func (f *File) Truncate(size int64) error {
	return errs.New("sqlite-s3-query: database is read-only")
}

// Sync is a no-op; there is nothing locally dirty to flush.
func (f *File) Sync(flags sqlite3vfs.SyncType) error {
	return nil
}

// FileSize reports the pinned object's length, captured once at Pin
// time and never refreshed for the life of the session.
func (f *File) FileSize() (int64, error) {
	return f.size, nil
}

// Lock and Unlock are no-ops: a single immutable, read-only snapshot
// needs no lock escalation, and nothing else in the process contends
// for it.
func (f *File) Lock(elock sqlite3vfs.LockType) error   { return nil }
func (f *File) Unlock(elock sqlite3vfs.LockType) error { return nil }

func (f *File) CheckReservedLock() (bool, error) {
	return false, nil
}

// SectorSize matches the page size negotiated at session open.
func (f *File) SectorSize() int64 {
	return int64(f.sectorSize)
}

// DeviceCharacteristics advertises immutability, letting the query
// planner skip locking overhead it would otherwise pay for a mutable
// file.
func (f *File) DeviceCharacteristics() sqlite3vfs.DeviceCharacteristic {
	return sqlite3vfs.IocapImmutable
}

func zero(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
