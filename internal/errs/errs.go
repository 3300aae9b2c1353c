// Package errs centralizes error construction and classification for the
// module. It re-exports the github.com/pkg/errors constructors so call
// sites never need to import that package directly, and layers the typed
// error kinds from the error-handling design on top.
package errs

import (
	"github.com/pkg/errors"
)

// Re-exported so the rest of the module has one place to import errors
// helpers from.
var (
	New    = errors.New
	Errorf = errors.Errorf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	As     = errors.As
	Is     = errors.Is
	Cause  = errors.Cause
	Unwrap = errors.Unwrap
)

// Kind identifies which part of the error taxonomy an error belongs to.
type Kind int

const (
	_ Kind = iota
	CredentialKind
	SigningKind
	HTTPStatusKind
	VersioningDisabledKind
	NotADatabaseKind
	ShortReadKind
	OverreadKind
	NetworkKind
	PrepareKind
	RowKind
)

// Error is a typed, wrapped error. Callers use errors.As to recover the
// Kind and, when present, the HTTP status code and the underlying cause.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newKind(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// CredentialError reports a failed or malformed credentials provider call.
func CredentialError(message string, cause error) *Error {
	return newKind(CredentialKind, message, cause)
}

// SigningError reports signer precondition violations (empty host,
// empty method, empty body hash, non-ASCII header names).
func SigningError(message string) *Error {
	return newKind(SigningKind, message, nil)
}

// HTTPStatusError reports an upstream response that wasn't the expected
// 206 Partial Content, or whose Content-Range did not match the request
// or carry a usable total size.
func HTTPStatusError(statusCode int, message string) *Error {
	e := newKind(HTTPStatusKind, message, nil)
	e.StatusCode = statusCode
	return e
}

// VersioningDisabledError reports a pinning response with no
// x-amz-version-id header.
func VersioningDisabledError(message string) *Error {
	return newKind(VersioningDisabledKind, message, nil)
}

// NotADatabaseError reports a pinning read whose first 100 bytes don't
// match the expected database magic header.
func NotADatabaseError(message string) *Error {
	return newKind(NotADatabaseKind, message, nil)
}

// ShortReadError reports a ranged read that returned fewer bytes than
// requested.
func ShortReadError(want, got int) *Error {
	return newKind(ShortReadKind, Errorf("short read: wanted %d bytes, got %d", want, got).Error(), nil)
}

// OverreadError reports a ranged read that returned more bytes than
// requested; surfaced to the engine as a disk I/O failure.
func OverreadError(want int) *Error {
	return newKind(OverreadKind, Errorf("disk I/O error: server returned more than the requested %d bytes", want).Error(), nil)
}

// NetworkError reports a transport failure: connection refused, reset,
// or timeout.
func NetworkError(message string, cause error) *Error {
	return newKind(NetworkKind, message, cause)
}

// PrepareError reports a statement that failed to compile.
func PrepareError(message string, cause error) *Error {
	return newKind(PrepareKind, message, cause)
}

// RowError reports a failure surfaced mid-iteration, typically caused by
// an underlying VFS read failure.
func RowError(message string, cause error) *Error {
	return newKind(RowKind, message, cause)
}

// IsKind reports whether err, or something it wraps, is an *Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !As(err, &e) {
		return false
	}
	return e.Kind == kind
}
