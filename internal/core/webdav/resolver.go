package webdav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/studio-b12/gowebdav"
)

var ErrInvalidURL = errors.New("invalid url")

// Resolver builds files DAV URIs for a single server and user.
type Resolver struct {
	base    *url.URL
	davPath string // unescaped, no trailing slash; "" for the server root
}

// NewResolver parses server and expands davRoot for user.
// An empty davRoot selects DefaultDavRoot.
func NewResolver(server, davRoot, user string) (*Resolver, error) {
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q needs an http(s) scheme and a host", ErrInvalidURL, server)
	}

	if davRoot == "" {
		davRoot = DefaultDavRoot
	}
	if strings.Contains(davRoot, "{user}") {
		if user == "" {
			return nil, fmt.Errorf("%w: dav root %q needs a user", ErrInvalidURL, davRoot)
		}
		davRoot = strings.ReplaceAll(davRoot, "{user}", user)
	}

	root := gowebdav.Join(u.Path, gowebdav.FixSlashes(davRoot))

	return &Resolver{
		base:    &url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host},
		davPath: strings.TrimRight(root, "/"),
	}, nil
}

func (r *Resolver) FilesDavPath() string {
	if r.davPath == "" {
		return "/"
	}
	return r.davPath
}

func (r *Resolver) FilesDavURI(remotePath string) (string, error) {
	if remotePath == "" {
		return "", fmt.Errorf("%w: empty remote path", ErrInvalidURL)
	}
	if strings.ContainsRune(remotePath, 0) {
		return "", fmt.Errorf("%w: remote path %q contains NUL", ErrInvalidURL, remotePath)
	}

	full := gowebdav.Join(r.davPath, remotePath)

	u := *r.base
	u.Path = full
	u.RawPath = gowebdav.PathEscape(full)
	return u.String(), nil
}

// Root returns the URL of the files collection, suitable for gowebdav.NewClient.
func (r *Resolver) Root() string {
	u := *r.base
	u.Path = gowebdav.FixSlash(r.davPath)
	u.RawPath = gowebdav.PathEscape(u.Path)
	return u.String()
}
