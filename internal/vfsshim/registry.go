// Package vfsshim adapts a rangeio.Reader to the sqlite3vfs.VFS/File
// interfaces, so the embedded engine can open and read the remote
// object as if it were a local, read-only database file.
package vfsshim

import (
	"sync"

	"github.com/google/uuid"
	"github.com/psanford/sqlite3vfs"
)

var registryMu sync.Mutex

// Register installs vfs under a fresh, process-unique name (sqlite3vfs
// keeps one global registry, so concurrent Sessions in the same process
// must never collide on a name) and returns that name for use in the
// DSN passed to sql.Open. Call Unregister with the same name when the
// owning Session tears down.
func Register(vfs sqlite3vfs.VFS) (string, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name := "sqlite-s3-query-" + uuid.NewString()
	if err := sqlite3vfs.RegisterVFS(name, vfs); err != nil {
		return "", err
	}
	return name, nil
}

// Unregister removes a previously Registered VFS.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	sqlite3vfs.UnregisterVFS(name)
}
