package sqlites3

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// buildFixtureDatabase materializes a real SQLite file on disk through the
// same driver the VFS shim registers with, then reads back its raw bytes.
// This is the one reliable way to get byte-exact SQLite page content
// without hand-encoding the file format: the real engine writes it.
func buildFixtureDatabase(t *testing.T) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("opening fixture database: %v", err)
	}
	db.SetMaxOpenConns(1)

	// Pin the page size explicitly rather than rely on the linked
	// SQLite library's compiled default; it must match WithSectorSize.
	if _, err := db.Exec(`PRAGMA page_size=4096`); err != nil {
		t.Fatalf("setting fixture page size: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE items(id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("creating fixture schema: %v", err)
	}

	stmt, err := db.Prepare(`INSERT INTO items(name) VALUES (?)`)
	if err != nil {
		t.Fatalf("preparing fixture insert: %v", err)
	}
	for _, name := range []string{"first", "second", "third"} {
		if _, err := stmt.Exec(name); err != nil {
			t.Fatalf("inserting fixture row %q: %v", name, err)
		}
	}
	if err := stmt.Close(); err != nil {
		t.Fatalf("closing fixture insert statement: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing fixture database: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture database bytes: %v", err)
	}
	return data
}

// newFixtureServer serves body as a ranged-GET object, answering every
// request with a fixed version id, and counts how many TCP connections it
// ever accepts so callers can assert the single-connection policy held.
func newFixtureServer(t *testing.T, body []byte) (*httptest.Server, *int32) {
	t.Helper()

	var connCount int32
	ts := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var start, end int64
		if _, err := fmt.Sscanf(r.Header.Get("Range"), "bytes=%d-%d", &start, &end); err != nil {
			http.Error(w, "missing or malformed Range header", http.StatusBadRequest)
			return
		}
		if end >= int64(len(body)) {
			end = int64(len(body)) - 1
		}

		w.Header().Set("x-amz-version-id", "v1")
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, len(body)))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(body[start : end+1])
	}))
	ts.Config.ConnState = func(conn net.Conn, state http.ConnState) {
		if state == http.StateNew {
			atomic.AddInt32(&connCount, 1)
		}
	}
	ts.Start()
	t.Cleanup(ts.Close)
	return ts, &connCount
}

// TestOpenPrepareIterateEndToEnd drives the whole read path against a real
// SQLite file served over signed ranged GETs: select-many, placeholder
// binding, a built-in SQL function, and a single pooled connection
// regardless of how many pages the query touches.
func TestOpenPrepareIterateEndToEnd(t *testing.T) {
	body := buildFixtureDatabase(t)
	ts, connCount := newFixtureServer(t, body)

	rawURL := fmt.Sprintf("http://%s/bucket/fixture.db", ts.Listener.Addr().String())

	sess, err := Open(context.Background(), rawURL, noCreds, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sess.Close()

	if sess.VersionID() != "v1" {
		t.Fatalf("VersionID() = %q, want %q", sess.VersionID(), "v1")
	}

	handle, err := sess.Prepare(context.Background(), `SELECT id, name FROM items WHERE id >= ? ORDER BY id`, 1)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer handle.Close()

	if diff := cmp.Diff([]string{"id", "name"}, handle.Columns()); diff != "" {
		t.Fatalf("Columns() mismatch (-want +got):\n%s", diff)
	}

	var gotNames []string
	for {
		more, err := handle.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !more {
			break
		}
		gotNames = append(gotNames, handle.Row().Cells[1].Text)
	}
	if diff := cmp.Diff([]string{"first", "second", "third"}, gotNames); diff != "" {
		t.Fatalf("row names mismatch (-want +got):\n%s", diff)
	}

	dateHandle, err := sess.Prepare(context.Background(), `SELECT date('now')`)
	if err != nil {
		t.Fatalf("Prepare date('now'): %v", err)
	}
	defer dateHandle.Close()

	more, err := dateHandle.Next()
	if err != nil || !more {
		t.Fatalf("Next() for date('now') = (%v, %v), want a row", more, err)
	}
	if got := dateHandle.Row().Cells[0].Text; len(got) != len("YYYY-MM-DD") {
		t.Fatalf("date('now') = %q, want a 10-character ISO date string", got)
	}

	badHandle, err := sess.Prepare(context.Background(), `SELECT * FROM non_table`)
	if err == nil {
		badHandle.Close()
		t.Fatal("Prepare() on a non-existent table succeeded, want a PrepareError")
	}
	if !IsErrorKind(err, PrepareErrorKind) {
		t.Fatalf("Prepare() error = %v, want PrepareErrorKind", err)
	}

	if got := atomic.LoadInt32(connCount); got != 1 {
		t.Fatalf("server observed %d new connections, want exactly 1 for the session's lifetime", got)
	}
}
