package vfsshim

import (
	"context"
	"strings"

	"github.com/candrsn/sqlite-s3-query/internal/errs"
	"github.com/candrsn/sqlite-s3-query/internal/rangeio"
	"github.com/psanford/sqlite3vfs"
)

// VFS serves exactly one remote object, already pinned to a version, as
// a single main database file. It never creates, deletes, or renames
// anything: every non-read call fails, since the object is immutable
// for the life of the session.
type VFS struct {
	ctx        context.Context
	reader     *rangeio.Reader
	size       int64
	sectorSize int
}

// New builds a VFS over an already-pinned reader. size is the object's
// total length, used to answer FileSize and to bound reads at EOF.
func New(ctx context.Context, reader *rangeio.Reader, size int64, sectorSize int) *VFS {
	return &VFS{ctx: ctx, reader: reader, size: size, sectorSize: sectorSize}
}

// Open returns the single backing File regardless of name, since a
// Session only ever opens its own pinned object as the main database.
// Journal, WAL, and temp file opens are refused: the session is
// read-only and the remote object carries no companion files.
func (v *VFS) Open(name string, flags sqlite3vfs.OpenFlag) (sqlite3vfs.File, sqlite3vfs.OpenFlag, error) {
	if flags&sqlite3vfs.OpenMainDB == 0 {
		return nil, 0, errs.New("sqlite-s3-query: read-only VFS only serves the main database file")
	}

	f := &File{ctx: v.ctx, reader: v.reader, size: v.size, sectorSize: v.sectorSize}
	return f, sqlite3vfs.OpenReadOnly | sqlite3vfs.OpenMainDB, nil
}

// Delete always fails: the VFS never manages a directory of files.
func (v *VFS) Delete(name string, dirSync bool) error {
	return errs.New("sqlite-s3-query: VFS is read-only, cannot delete " + name)
}

// Access reports any name ending in -journal, -wal or -shm as absent,
// and every other name as present and readable but never writable; this
// is how SQLite is told there is no journal, WAL, or shared-memory file
// to find, and that the database can't be written.
func (v *VFS) Access(name string, flags sqlite3vfs.AccessFlag) (bool, error) {
	if strings.HasSuffix(name, "-journal") || strings.HasSuffix(name, "-wal") || strings.HasSuffix(name, "-shm") {
		return false, nil
	}
	if flags == sqlite3vfs.AccessReadWrite {
		return false, nil
	}
	return true, nil
}

// FullPathname is the identity function: the "name" SQLite ever sees is
// the opaque DSN passed to sql.Open, not a filesystem path.
func (v *VFS) FullPathname(name string) string {
	return name
}
