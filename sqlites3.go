// Package sqlites3 opens a read-only SQLite database stored as a single
// S3 object, without ever downloading it. A Session pins one immutable
// object version at Open time, signs and issues ranged HTTP GETs itself
// rather than pulling in a full S3 client, and serves the embedded
// engine's page reads through a custom VFS backed by those signed
// requests.
//
// Overview
//
// Open resolves a path-style S3 URL, pins its current object version,
// validates the SQLite file header, and registers a process-unique VFS
// before handing back a Session. Session.Prepare compiles and binds a
// statement, returning a QueryHandle to iterate its rows. Both types
// must be Closed; a Session outlives every QueryHandle it produces.
package sqlites3
