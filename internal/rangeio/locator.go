package rangeio

import (
	"net/url"
	"strings"

	"github.com/candrsn/sqlite-s3-query/internal/errs"
)

// Locator names the single object a Reader ever talks to: a path-style
// bucket/key pair on some S3-compatible endpoint.
type Locator struct {
	Scheme string
	Host   string
	Bucket string
	Key    string
}

// ParseLocator accepts the path-style form: scheme://host/bucket/key[/with/slashes].
// Virtual-hosted-style bucket names (bucket.host) are not supported.
func ParseLocator(raw string) (Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, errs.New("parsing object URL: " + err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Locator{}, errs.New("object URL scheme must be http or https, got " + u.Scheme)
	}
	if u.Host == "" {
		return Locator{}, errs.New("object URL is missing a host")
	}

	trimmed := strings.TrimPrefix(u.Path, "/")
	bucket, key, ok := strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return Locator{}, errs.New("object URL path must be /bucket/key, got " + u.Path)
	}

	return Locator{Scheme: u.Scheme, Host: u.Host, Bucket: bucket, Key: key}, nil
}

// Path is the canonical request path: /bucket/key.
func (l Locator) Path() string {
	return "/" + l.Bucket + "/" + l.Key
}
