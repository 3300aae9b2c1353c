// Package creds defines the credentials shape shared between the public
// API and the internal transport/signing packages, so neither has to
// import the other.
package creds

import "context"

// Credentials is the tuple a credentials provider returns: region,
// access key id, secret access key, and an optional session token for
// short-lived credentials. SessionToken == "" means none.
type Credentials struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Func is invoked once per signed request; it must never be cached past
// a single signature, since the whole point is supporting short-lived
// credentials.
type Func func(ctx context.Context) (Credentials, error)
