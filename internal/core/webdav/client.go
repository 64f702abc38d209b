package webdav

import (
	"context"
	"net"
	"net/http"
	"time"

	restypes "github.com/davstat/internal/core/webdav/restypes"
	"github.com/davstat/internal/interfaces"
)

// This is package for interacting with a ready WebDAV server.

const DefaultUserAgent = "davstat/1.0"

type Options struct {
	Username string
	Password string

	UserAgent string

	// Non-zero values replace the timeouts requested by each call.
	ReadTimeout    time.Duration
	ConnectTimeout time.Duration

	// Transport is cloned; nil means http.DefaultTransport.
	Transport *http.Transport
}

// Client executes PROPFIND calls against one files collection.
// It is safe for concurrent use; every call owns its own request.
type Client struct {
	*Resolver

	user      string
	pass      string
	userAgent string

	readOverride    time.Duration
	connectOverride time.Duration

	http *http.Client
}

type connectTimeoutKey struct{}

func NewClient(resolver *Resolver, opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport)
	}
	transport := base.Clone()
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := net.Dialer{KeepAlive: 30 * time.Second}
		if timeout, ok := ctx.Value(connectTimeoutKey{}).(time.Duration); ok && timeout > 0 {
			d.Timeout = timeout
		}
		return d.DialContext(ctx, network, addr)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	httpClient := &http.Client{
		Transport: transport,
		// a redirected PROPFIND would be replayed as GET
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{
		Resolver:        resolver,
		user:            opts.Username,
		pass:            opts.Password,
		userAgent:       ua,
		readOverride:    opts.ReadTimeout,
		connectOverride: opts.ConnectTimeout,
		http:            httpClient,
	}
}

func (c *Client) NewPropfind(uri string, props []restypes.PropName, depth restypes.Depth) interfaces.PropfindCall {
	return &Call{
		client: c,
		uri:    uri,
		props:  props,
		depth:  depth,
	}
}

func (c *Client) timeouts(read, connect time.Duration) (time.Duration, time.Duration) {
	if c.readOverride > 0 {
		read = c.readOverride
	}
	if c.connectOverride > 0 {
		connect = c.connectOverride
	}
	return read, connect
}
