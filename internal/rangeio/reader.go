// Package rangeio issues signed, strictly bounded HTTP range GETs against
// a single S3 object and pins the session to one immutable object
// version. It sends every request through the single HTTP client the
// owning Session provides and closes.
package rangeio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/candrsn/sqlite-s3-query/internal/creds"
	"github.com/candrsn/sqlite-s3-query/internal/debug"
	"github.com/candrsn/sqlite-s3-query/internal/errs"
	"github.com/candrsn/sqlite-s3-query/internal/sigv4"
)

// sqliteMagic is the first bytes of every valid SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// Reader performs signed ranged reads against one pinned object version.
// It is not safe for concurrent use: callers (the VFS shim, by way of a
// Session) are expected to serialize access the way SQLite serializes
// calls to a single file handle.
type Reader struct {
	client    Client
	loc       Locator
	getCreds  creds.Func
	versionID string
	size      int64
}

// New builds a Reader that is not yet pinned to a version; call Pin
// before any ReadRange.
func New(client Client, loc Locator, getCreds creds.Func) *Reader {
	return &Reader{client: client, loc: loc, getCreds: getCreds}
}

// VersionID returns the version this Reader is pinned to, or "" before
// Pin succeeds.
func (r *Reader) VersionID() string {
	return r.versionID
}

// Size returns the pinned object's total length, as reported by the
// Content-Range header of the pinning probe. It is only valid once Pin
// has succeeded.
func (r *Reader) Size() int64 {
	return r.size
}

// Pin resolves and pins the object's current version by issuing an
// unversioned ranged GET for the first 100 bytes, recording the
// x-amz-version-id the store returns, and validating the SQLite magic
// header. It fails with VersioningDisabledError if the store omits the
// version header, and NotADatabaseError if the bytes don't look like a
// SQLite file. Note this means a corrupted header fails Open itself,
// not the first query against it, which is a deliberately stricter
// boundary than deferring the check to the first read.
func (r *Reader) Pin(ctx context.Context) error {
	data, headers, err := r.get(ctx, 0, 100, "")
	if err != nil {
		return err
	}

	versionID := headers.Get("x-amz-version-id")
	if versionID == "" {
		return errs.VersioningDisabledError("bucket does not have versioning enabled: no x-amz-version-id on response")
	}

	if len(data) < len(sqliteMagic) || string(data[:len(sqliteMagic)]) != string(sqliteMagic) {
		return errs.NotADatabaseError("object does not begin with the SQLite file header")
	}

	size, err := totalSizeFromContentRange(headers.Get("Content-Range"))
	if err != nil {
		return err
	}

	r.versionID = versionID
	r.size = size
	debug.Log("rangeio: pinned %s to version %s, size %d", r.loc.Path(), versionID, size)
	return nil
}

// totalSizeFromContentRange extracts the object's total size from a
// "bytes start-end/size" Content-Range value.
func totalSizeFromContentRange(contentRange string) (int64, error) {
	idx := strings.LastIndexByte(contentRange, '/')
	if idx < 0 || idx == len(contentRange)-1 {
		return 0, errs.HTTPStatusError(http.StatusPartialContent, fmt.Sprintf("Content-Range %q does not carry a total size", contentRange))
	}
	size, err := strconv.ParseInt(contentRange[idx+1:], 10, 64)
	if err != nil {
		return 0, errs.HTTPStatusError(http.StatusPartialContent, fmt.Sprintf("Content-Range %q has an unparseable total size", contentRange))
	}
	return size, nil
}

// ReadRange fetches exactly length bytes starting at offset from the
// pinned object version. length must be positive. The read enforces an
// exact byte count: a response with fewer or more bytes than requested
// is an error, never silently truncated or padded.
func (r *Reader) ReadRange(ctx context.Context, offset, length int64) ([]byte, error) {
	if r.versionID == "" {
		return nil, errs.New("ReadRange called before the reader was pinned to a version")
	}
	if length <= 0 {
		return nil, errs.New("ReadRange length must be positive")
	}

	data, _, err := r.get(ctx, offset, length, r.versionID)
	return data, err
}

// get issues one signed ranged GET and enforces the exact byte count.
// versionID == "" means the pinning probe: no versionId query parameter
// is sent, so the store answers with its current (pre-pin) version.
func (r *Reader) get(ctx context.Context, offset, length int64, versionID string) ([]byte, http.Header, error) {
	cred, err := r.getCreds(ctx)
	if err != nil {
		return nil, nil, errs.CredentialError("retrieving credentials", err)
	}

	rangeHeader := fmt.Sprintf("bytes=%d-%d", offset, offset+length-1)

	var query []sigv4.QueryParam
	if versionID != "" {
		query = []sigv4.QueryParam{{Key: "versionId", Value: versionID}}
	}

	signed, err := sigv4.Sign(sigv4.SignInput{
		Method:          http.MethodGet,
		Path:            r.loc.Path(),
		Query:           query,
		Headers:         []sigv4.Header{{Key: "range", Value: rangeHeader}},
		BodyHash:        sigv4.EmptyBodyHash,
		Host:            r.loc.Host,
		Region:          cred.Region,
		AccessKeyID:     cred.AccessKeyID,
		SecretAccessKey: cred.SecretAccessKey,
		SessionToken:    cred.SessionToken,
		Now:             time.Now().UTC(),
	})
	if err != nil {
		return nil, nil, err
	}

	reqURL := r.loc.Scheme + "://" + r.loc.Host + r.loc.Path()
	if versionID != "" {
		reqURL += "?versionId=" + versionID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, errs.NetworkError("building request", err)
	}
	req.Header = signed

	debug.Log("rangeio: GET %s range=%s", reqURL, rangeHeader)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, nil, errs.NetworkError("performing ranged GET", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		return nil, nil, errs.HTTPStatusError(resp.StatusCode, fmt.Sprintf("expected 206 Partial Content, got %d", resp.StatusCode))
	}

	wantContentRange := fmt.Sprintf("bytes %d-%d/", offset, offset+length-1)
	gotContentRange := resp.Header.Get("Content-Range")
	if len(gotContentRange) < len(wantContentRange) || gotContentRange[:len(wantContentRange)] != wantContentRange {
		return nil, nil, errs.HTTPStatusError(resp.StatusCode, fmt.Sprintf("Content-Range %q does not match requested range %q", gotContentRange, rangeHeader))
	}

	buf := make([]byte, length)
	n, err := io.ReadFull(resp.Body, buf)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil, errs.ShortReadError(int(length), n)
		}
		return nil, nil, errs.NetworkError("reading response body", err)
	}

	var extra [1]byte
	m, _ := resp.Body.Read(extra[:])
	if m > 0 {
		return nil, nil, errs.OverreadError(int(length))
	}

	return buf, resp.Header, nil
}
