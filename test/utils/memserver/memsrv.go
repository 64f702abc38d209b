package memserver

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Entry is one resource known to the backend.
type Entry struct {
	DisplayName string
	ContentType string
	Size        int64
	ETag        string
	Created     time.Time
	Modified    time.Time
	Permissions string
	ID          string
	IsDir       bool
}

// Request is a recorded PROPFIND or OPTIONS.
type Request struct {
	Method string
	Path   string
	Depth  string
	Body   string
	Header http.Header
}

// simple in-memory WebDAV backend used by tests.
// supports OPTIONS and PROPFIND (depth 0 and 1) under DavRoot.
type MemBackend struct {
	DavRoot string

	mu        sync.Mutex
	M         map[string]Entry
	forced    int
	noEntries bool
	rawBody   string
	delay     time.Duration
	user      string
	pass      string
	requests  []Request
}

func NewMemBackend(davRoot string) *MemBackend {
	return &MemBackend{
		DavRoot: strings.TrimRight(davRoot, "/"),
		M:       make(map[string]Entry),
	}
}

func (b *MemBackend) Reset() {
	b.mu.Lock()
	b.M = make(map[string]Entry)
	b.forced = 0
	b.noEntries = false
	b.rawBody = ""
	b.delay = 0
	b.user, b.pass = "", ""
	b.requests = nil
	b.mu.Unlock()
}

// Set stores e under the remote path key (leading "/", no trailing slash).
func (b *MemBackend) Set(key string, e Entry) {
	b.mu.Lock()
	b.M[normalize(key)] = e
	b.mu.Unlock()
}

func (b *MemBackend) Get(key string) (Entry, bool) {
	b.mu.Lock()
	e, ok := b.M[normalize(key)]
	b.mu.Unlock()
	return e, ok
}

// ForceStatus makes every PROPFIND answer with code. 200 and 207 still
// carry a multistatus body; other codes carry a short text body.
func (b *MemBackend) ForceStatus(code int) {
	b.mu.Lock()
	b.forced = code
	b.mu.Unlock()
}

// EmptyMultistatus makes successful PROPFINDs return no response entries.
func (b *MemBackend) EmptyMultistatus(on bool) {
	b.mu.Lock()
	b.noEntries = on
	b.mu.Unlock()
}

// RawBody replaces the multistatus body of successful PROPFINDs.
func (b *MemBackend) RawBody(body string) {
	b.mu.Lock()
	b.rawBody = body
	b.mu.Unlock()
}

// Delay holds PROPFIND responses back, or until the client gives up.
func (b *MemBackend) Delay(d time.Duration) {
	b.mu.Lock()
	b.delay = d
	b.mu.Unlock()
}

// RequireAuth enables basic auth for PROPFIND.
func (b *MemBackend) RequireAuth(user, pass string) {
	b.mu.Lock()
	b.user, b.pass = user, pass
	b.mu.Unlock()
}

func (b *MemBackend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func normalize(p string) string {
	return path.Clean("/" + p)
}

func (b *MemBackend) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Depth:  r.Header.Get("Depth"),
		Body:   string(body),
		Header: r.Header.Clone(),
	})
	forced, noEntries, rawBody, delay := b.forced, b.noEntries, b.rawBody, b.delay
	user, pass := b.user, b.pass
	b.mu.Unlock()

	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("DAV", "1, 2")
		w.Header().Set("Allow", "OPTIONS, PROPFIND")
		w.WriteHeader(http.StatusOK)
	case "PROPFIND":
		if user != "" {
			u, p, ok := r.BasicAuth()
			if !ok || u != user || p != pass {
				w.Header().Set("WWW-Authenticate", `Basic realm="memserver"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		status := http.StatusMultiStatus
		if forced != 0 {
			if forced != http.StatusOK && forced != http.StatusMultiStatus {
				http.Error(w, http.StatusText(forced), forced)
				return
			}
			status = forced
		}

		if rawBody != "" {
			writeXML(w, status, rawBody)
			return
		}

		key, ok := b.remotePath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		entries := b.collect(key, r.Header.Get("Depth"))
		if entries == nil {
			http.NotFound(w, r)
			return
		}
		if noEntries {
			entries = nil
		}

		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
		sb.WriteString(`<d:multistatus xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">`)
		for _, ne := range entries {
			b.renderEntry(&sb, ne.key, ne.entry)
		}
		sb.WriteString(`</d:multistatus>`)
		writeXML(w, status, sb.String())
	default:
		http.Error(w, "not implemented", http.StatusNotImplemented)
	}
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (b *MemBackend) remotePath(p string) (string, bool) {
	if b.DavRoot != "" {
		if p != b.DavRoot && !strings.HasPrefix(p, b.DavRoot+"/") {
			return "", false
		}
		p = strings.TrimPrefix(p, b.DavRoot)
	}
	return normalize(p), true
}

type namedEntry struct {
	key   string
	entry Entry
}

func (b *MemBackend) collect(key, depth string) []namedEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.M[key]
	if !ok {
		if key != "/" {
			return nil
		}
		e = Entry{IsDir: true}
	}
	out := []namedEntry{{key, e}}
	if !e.IsDir || depth != "1" {
		return out
	}

	var children []namedEntry
	for k, c := range b.M {
		if k != key && path.Dir(k) == key {
			children = append(children, namedEntry{k, c})
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].key < children[j].key })
	return append(out, children...)
}

func (b *MemBackend) renderEntry(sb *strings.Builder, key string, e Entry) {
	href := b.DavRoot + key
	if e.IsDir && !strings.HasSuffix(href, "/") {
		href += "/"
	}

	found := []string{}
	missing := []string{}
	add := func(ok bool, name, value string) {
		if ok {
			found = append(found, fmt.Sprintf("<%s>%s</%s>", name, escape(value), name))
		} else {
			missing = append(missing, "<"+name+"/>")
		}
	}

	if e.IsDir {
		found = append(found, "<d:resourcetype><d:collection/></d:resourcetype>")
	} else {
		found = append(found, "<d:resourcetype/>")
	}
	add(e.DisplayName != "", "d:displayname", e.DisplayName)
	add(e.ContentType != "", "d:getcontenttype", e.ContentType)
	add(!e.IsDir, "d:getcontentlength", strconv.FormatInt(e.Size, 10))
	add(!e.Modified.IsZero(), "d:getlastmodified", e.Modified.UTC().Format(http.TimeFormat))
	add(!e.Created.IsZero(), "d:creationdate", e.Created.UTC().Format(time.RFC3339))
	add(e.ETag != "", "d:getetag", `"`+e.ETag+`"`)
	add(e.Permissions != "", "oc:permissions", e.Permissions)
	add(e.ID != "", "oc:id", e.ID)
	add(e.IsDir, "oc:size", strconv.FormatInt(e.Size, 10))

	sb.WriteString("<d:response>")
	sb.WriteString("<d:href>" + escape((&url.URL{Path: href}).EscapedPath()) + "</d:href>")
	sb.WriteString("<d:propstat><d:prop>" + strings.Join(found, "") + "</d:prop><d:status>HTTP/1.1 200 OK</d:status></d:propstat>")
	if len(missing) > 0 {
		sb.WriteString("<d:propstat><d:prop>" + strings.Join(missing, "") + "</d:prop><d:status>HTTP/1.1 404 Not Found</d:status></d:propstat>")
	}
	sb.WriteString("</d:response>")
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}

func NewTestServer(davRoot string) (*httptest.Server, *MemBackend) {
	b := NewMemBackend(davRoot)
	s := httptest.NewServer(http.HandlerFunc(b.handler))
	return s, b
}
