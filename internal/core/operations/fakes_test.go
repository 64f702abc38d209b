package operations

import (
	"fmt"
	"sync"
	"time"

	restypes "github.com/davstat/internal/core/webdav/restypes"
	"github.com/davstat/internal/interfaces"
)

const testBase = "/remote.php/dav/files/alice"

type fakeCall struct {
	status     int
	executeErr error
	ms         *restypes.Multistatus
	msErr      error
	panicMsg   string

	executed       int
	exhausted      int
	released       int
	readTimeout    time.Duration
	connectTimeout time.Duration
}

func (c *fakeCall) Execute(read, connect time.Duration) (int, error) {
	c.executed++
	c.readTimeout, c.connectTimeout = read, connect
	if c.panicMsg != "" {
		panic(c.panicMsg)
	}
	return c.status, c.executeErr
}

func (c *fakeCall) MultiStatus() (*restypes.Multistatus, error) {
	return c.ms, c.msErr
}

func (c *fakeCall) Exhaust() error {
	c.exhausted++
	return nil
}

func (c *fakeCall) Release() { c.released++ }

type fakeClient struct {
	uriErr error
	call   *fakeCall

	uri   string
	props []restypes.PropName
	depth restypes.Depth
}

func (f *fakeClient) FilesDavURI(p string) (string, error) {
	if f.uriErr != nil {
		return "", f.uriErr
	}
	return "https://cloud.example.com" + testBase + p, nil
}

func (f *fakeClient) FilesDavPath() string { return testBase }

func (f *fakeClient) NewPropfind(uri string, props []restypes.PropName, depth restypes.Depth) interfaces.PropfindCall {
	f.uri, f.props, f.depth = uri, props, depth
	return f.call
}

func fileEntry(p string, size int64, contentType string) restypes.Response {
	return restypes.Response{
		Href: testBase + p,
		Propstat: []restypes.Propstat{{
			Prop: restypes.Prop{
				ContentType:   contentType,
				ContentLength: fmt.Sprint(size),
				LastModified:  "Sun, 12 Oct 2025 12:29:35 GMT",
				Etag:          `"5f2b1c"`,
			},
			Status: "HTTP/1.1 200 OK",
		}},
	}
}

func multistatus(entries ...restypes.Response) *restypes.Multistatus {
	return &restypes.Multistatus{Responses: entries}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) Errorf(format string, v ...any) {
	l.mu.Lock()
	l.entries = append(l.entries, fmt.Sprintf(format, v...))
	l.mu.Unlock()
}

func (l *recordingLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}
