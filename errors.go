package sqlites3

import "github.com/candrsn/sqlite-s3-query/internal/errs"

// ErrorKind identifies which part of the error taxonomy an error
// belongs to. Use IsErrorKind to test an error returned from this
// package against one of the Kind constants below.
type ErrorKind = errs.Kind

const (
	CredentialErrorKind         = errs.CredentialKind
	SigningErrorKind            = errs.SigningKind
	HTTPStatusErrorKind         = errs.HTTPStatusKind
	VersioningDisabledErrorKind = errs.VersioningDisabledKind
	NotADatabaseErrorKind       = errs.NotADatabaseKind
	ShortReadErrorKind          = errs.ShortReadKind
	OverreadErrorKind           = errs.OverreadKind
	NetworkErrorKind            = errs.NetworkKind
	PrepareErrorKind            = errs.PrepareKind
	RowErrorKind                = errs.RowKind
)

// IsErrorKind reports whether err, or something it wraps, belongs to
// the given error kind.
func IsErrorKind(err error, kind ErrorKind) bool {
	return errs.IsKind(err, kind)
}

// Classify marks err as non-retryable (backoff.Permanent) when it carries
// one of this package's kinds other than NetworkErrorKind; network errors
// and errors outside the taxonomy are returned unchanged. Open and Session.Prepare
// already run their returned errors through this, so a caller who wraps
// either in their own backoff.Retry loop never wastes an attempt on a
// bad signature or a corrupt header; it is exported for callers who
// build their own errors on top of this package's kinds.
func Classify(err error) error {
	return errs.Classify(err)
}
