package sqlites3

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/candrsn/sqlite-s3-query/internal/debug"
	"github.com/candrsn/sqlite-s3-query/internal/errs"
	"github.com/candrsn/sqlite-s3-query/internal/rangeio"
	"github.com/candrsn/sqlite-s3-query/internal/vfsshim"

	_ "github.com/mattn/go-sqlite3"
)

// Session owns every resource a single pinned database snapshot needs:
// the pooled HTTP client, the registered VFS, and the underlying
// database handle. Every byte read for the life of a Session is tagged
// with the same S3 object version.
type Session struct {
	cancel    context.CancelFunc
	client    rangeio.Client
	vfsName   string
	db        *sql.DB
	versionID string
}

// Open resolves and pins rawURL's current object version, validates the
// first 100 bytes against the SQLite file header, registers a
// process-unique VFS backed by signed ranged reads over a single pooled
// connection, and opens the result read-only. rawURL must be path-style:
// scheme://host/bucket/key.
func Open(ctx context.Context, rawURL string, getCredentials CredentialsFunc, opts ...Option) (sess *Session, err error) {
	defer func() {
		if err != nil {
			err = errs.Classify(err)
		}
	}()

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clientProvider == nil {
		cfg.clientProvider = rangeio.DefaultClientProvider(cfg.timeout)
	}

	loc, err := rangeio.ParseLocator(rawURL)
	if err != nil {
		return nil, err
	}

	client, err := cfg.clientProvider()
	if err != nil {
		return nil, errs.NetworkError("building HTTP client", err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)

	reader := rangeio.New(client, loc, getCredentials)
	if err := reader.Pin(sessionCtx); err != nil {
		cancel()
		client.Close()
		return nil, err
	}

	vfs := vfsshim.New(sessionCtx, reader, reader.Size(), cfg.sectorSize)
	vfsName, err := vfsshim.Register(vfs)
	if err != nil {
		cancel()
		client.Close()
		return nil, errs.Wrap(err, "registering VFS")
	}

	dsn := fmt.Sprintf("file:%s?vfs=%s&mode=ro&immutable=1", loc.Key, vfsName)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		vfsshim.Unregister(vfsName)
		cancel()
		client.Close()
		return nil, errs.Wrap(err, "opening database handle")
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(sessionCtx); err != nil {
		db.Close()
		vfsshim.Unregister(vfsName)
		cancel()
		client.Close()
		return nil, errs.Wrap(err, "opening pinned database")
	}

	debug.Log("session: opened %s at version %s, %d bytes", loc.Path(), reader.VersionID(), reader.Size())

	return &Session{
		cancel:    cancel,
		client:    client,
		vfsName:   vfsName,
		db:        db,
		versionID: reader.VersionID(),
	}, nil
}

// VersionID returns the S3 object version this Session is pinned to.
func (s *Session) VersionID() string {
	return s.versionID
}

// Prepare compiles query against the pinned database, binds params in
// positional order, and begins execution. The returned QueryHandle must
// be released with Close before the Session is closed.
func (s *Session) Prepare(ctx context.Context, query string, params ...interface{}) (handle *QueryHandle, err error) {
	defer func() {
		if err != nil {
			err = errs.Classify(err)
		}
	}()

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, errs.PrepareError("preparing statement", err)
	}

	rows, err := stmt.QueryContext(ctx, params...)
	if err != nil {
		stmt.Close()
		return nil, errs.PrepareError("binding parameters", err)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		stmt.Close()
		return nil, errs.PrepareError("reading column names", err)
	}

	return &QueryHandle{stmt: stmt, rows: rows, columns: columns}, nil
}

// Close tears the Session down in reverse order of acquisition: the
// database handle, the VFS registration, the session's own context, and
// finally the pooled HTTP client. It is safe to call once, and should
// only be called after every QueryHandle it produced has been closed.
func (s *Session) Close() error {
	var firstErr error
	if err := s.db.Close(); err != nil && firstErr == nil {
		firstErr = errs.Wrap(err, "closing database handle")
	}

	vfsshim.Unregister(s.vfsName)
	s.cancel()

	if err := s.client.Close(); err != nil && firstErr == nil {
		firstErr = errs.Wrap(err, "closing HTTP client")
	}
	return firstErr
}
