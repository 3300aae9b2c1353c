package errs

import "github.com/cenkalti/backoff/v4"

// Classify wraps err in backoff.Permanent unless its Kind indicates a
// transient transport failure. This layer never retries anything
// itself; retry policy belongs to the caller. Classify only makes sure
// a caller who wraps Open/Prepare in their own backoff.Retry loop
// doesn't waste attempts retrying a bad signature or a corrupt database
// header.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if !As(err, &e) {
		// Unclassified errors (context cancellation, generic I/O) are left
		// as-is; only our own taxonomy is opinionated about retryability.
		return err
	}

	if e.Kind == NetworkKind {
		return err
	}

	return backoff.Permanent(err)
}
