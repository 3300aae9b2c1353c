package sqlites3

import (
	"time"

	"github.com/candrsn/sqlite-s3-query/internal/rangeio"
)

type config struct {
	clientProvider rangeio.ClientProvider
	sectorSize     int
	timeout        time.Duration
}

func defaultConfig() config {
	return config{
		sectorSize: 4096,
		timeout:    30 * time.Second,
	}
}

// Option configures a Session at Open time.
type Option func(*config)

// WithHTTPClientProvider overrides how the Session builds its single
// pooled HTTP client. Tests use this to inject a scripted client instead
// of dialing a real endpoint.
func WithHTTPClientProvider(p rangeio.ClientProvider) Option {
	return func(c *config) { c.clientProvider = p }
}

// WithSectorSize overrides the page size reported to the embedded
// engine. It should match the database file's actual page size; 4096 is
// SQLite's modern default.
func WithSectorSize(n int) Option {
	return func(c *config) { c.sectorSize = n }
}

// WithTimeout bounds how long any single ranged GET may take, including
// the pinning probe. It configures the default client only; it has no
// effect when WithHTTPClientProvider supplies the client.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}
