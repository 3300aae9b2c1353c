package rangeio

import (
	"net"
	"net/http"
	"time"
)

// Client is the minimal HTTP surface a Reader needs: send a request, get
// back a response whose Body is read to completion and closed by the
// caller. It exists so tests can substitute a scripted client without
// standing up a real listener.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
	Close() error
}

// ClientProvider builds the single Client a Session uses for its entire
// lifetime. Sessions call it exactly once at Open time.
type ClientProvider func() (Client, error)

type pooledClient struct {
	http *http.Client
}

func (c *pooledClient) Do(req *http.Request) (*http.Response, error) {
	return c.http.Do(req)
}

func (c *pooledClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// DefaultClientProvider returns a ClientProvider backed by a real
// *http.Transport capped at one connection per host, so a Session holds
// open exactly one TCP/TLS connection for its lifetime regardless of how
// many range reads it issues against it.
func DefaultClientProvider(timeout time.Duration) ClientProvider {
	return func() (Client, error) {
		transport := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxConnsPerHost:       1,
			MaxIdleConnsPerHost:   1,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		return &pooledClient{http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}}, nil
	}
}
