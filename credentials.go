package sqlites3

import "github.com/candrsn/sqlite-s3-query/internal/creds"

// Credentials is one resolved set of AWS credentials: a region, an
// access key id, a secret access key, and an optional session token for
// short-lived credentials. SessionToken == "" means none.
type Credentials = creds.Credentials

// CredentialsFunc is called once per signed request. It must support
// being called repeatedly over a Session's lifetime rather than caching
// a single result, since the point of calling it per-request is
// supporting credentials that expire mid-session.
type CredentialsFunc = creds.Func
