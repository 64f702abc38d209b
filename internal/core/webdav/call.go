package webdav

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	restypes "github.com/davstat/internal/core/webdav/restypes"
)

var (
	ErrInvalidMultistatus = errors.New("invalid multistatus response")
	ErrNotExecuted        = errors.New("propfind has not been executed")
	ErrReleased           = errors.New("propfind already released")
)

// Call is a single PROPFIND. It holds the response body, and the context
// bounding it, from Execute until Release.
type Call struct {
	client *Client
	uri    string
	props  []restypes.PropName
	depth  restypes.Depth

	mu       sync.Mutex
	resp     *http.Response
	cancel   context.CancelFunc
	released bool
}

// Execute sends the request and returns the response status. The read
// timeout covers the whole exchange, body included, until Release.
func (c *Call) Execute(readTimeout, connectTimeout time.Duration) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return 0, ErrReleased
	}
	if c.resp != nil {
		return 0, fmt.Errorf("propfind %s executed twice", c.uri)
	}

	readTimeout, connectTimeout = c.client.timeouts(readTimeout, connectTimeout)

	ctx := context.WithValue(context.Background(), connectTimeoutKey{}, connectTimeout)
	var cancel context.CancelFunc
	if readTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, readTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	req, err := http.NewRequestWithContext(ctx, PROPFIND, c.uri, strings.NewReader(restypes.PropfindBody(c.props)))
	if err != nil {
		cancel()
		return 0, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if c.client.user != "" || c.client.pass != "" {
		req.SetBasicAuth(c.client.user, c.client.pass)
	}
	req.Header.Set(DepthHeader, string(c.depth))
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	req.Header.Set("User-Agent", c.client.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.client.http.Do(req)
	if err != nil {
		cancel()
		return 0, err
	}

	c.resp = resp
	c.cancel = cancel
	return resp.StatusCode, nil
}

// MultiStatus decodes the response body.
func (c *Call) MultiStatus() (*restypes.Multistatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	body, err := c.body()
	if err != nil {
		return nil, err
	}

	var ms restypes.Multistatus
	if err := xml.NewDecoder(body).Decode(&ms); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMultistatus, err)
	}
	return &ms, nil
}

func (c *Call) Exhaust() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	body, err := c.body()
	if err != nil {
		return err
	}
	_, err = io.Copy(io.Discard, body)
	return err
}

// Release closes the response body and frees the request context.
// Calling it more than once is a no-op.
func (c *Call) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return
	}
	c.released = true

	if c.resp != nil {
		_ = c.resp.Body.Close()
	}
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Call) body() (io.Reader, error) {
	if c.released {
		return nil, ErrReleased
	}
	if c.resp == nil {
		return nil, ErrNotExecuted
	}
	return c.resp.Body, nil
}
