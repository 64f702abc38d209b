package files

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	restypes "github.com/davstat/internal/core/webdav/restypes"
)

var ErrMalformedEntry = errors.New("malformed multistatus entry")

func malformed(href, format string, v ...any) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedEntry, href, fmt.Sprintf(format, v...))
}

// Parse converts one multistatus entry into FileMetadata. basePath is the
// unescaped path of the files collection; the resulting path is relative
// to it.
func Parse(entry restypes.Response, basePath string) (*FileMetadata, error) {
	if entry.Href == "" {
		return nil, fmt.Errorf("%w: entry without href", ErrMalformedEntry)
	}

	if entry.Status != "" {
		code, err := restypes.ParseStatusLine(entry.Status)
		if err != nil {
			return nil, malformed(entry.Href, "%v", err)
		}
		if code/100 != 2 {
			return nil, malformed(entry.Href, "resource status %d", code)
		}
	}

	remotePath, err := relativePath(entry.Href, basePath)
	if err != nil {
		return nil, err
	}

	prop, err := mergeProps(entry)
	if err != nil {
		return nil, err
	}

	f := &FileMetadata{
		path:        remotePath,
		displayName: prop.DisplayName,
		contentType: prop.ContentType,
		etag:        normalizeETag(prop.Etag),
		permissions: prop.Permissions,
		remoteID:    prop.ID,
		isFolder:    prop.ResourceType.IsCollection(),
	}

	f.name = path.Base(strings.TrimSuffix(remotePath, "/"))
	if f.name == "/" || f.name == "." {
		f.name = ""
	}

	if f.isFolder {
		if !strings.HasSuffix(f.path, "/") {
			f.path += "/"
		}
		if f.contentType == "" {
			f.contentType = FolderContentType
		}
	}

	if f.size, err = parseSize(prop.ContentLength); err != nil {
		return nil, malformed(entry.Href, "getcontentlength: %v", err)
	}
	if f.isFolder && prop.Size != "" {
		if f.size, err = parseSize(prop.Size); err != nil {
			return nil, malformed(entry.Href, "size: %v", err)
		}
	}

	if prop.LastModified != "" {
		if f.modified, err = http.ParseTime(strings.TrimSpace(prop.LastModified)); err != nil {
			return nil, malformed(entry.Href, "getlastmodified: %v", err)
		}
	}
	if prop.CreationDate != "" {
		if f.created, err = time.Parse(time.RFC3339, strings.TrimSpace(prop.CreationDate)); err != nil {
			return nil, malformed(entry.Href, "creationdate: %v", err)
		}
	}

	return f, nil
}

// relativePath strips basePath from the decoded href path. Hrefs may be
// absolute URLs or absolute paths.
func relativePath(href, basePath string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", malformed(href, "%v", err)
	}
	p := u.Path
	if p == "" {
		return "", malformed(href, "href has no path")
	}

	base := strings.TrimRight(basePath, "/")
	if base != "" {
		if p != base && !strings.HasPrefix(p, base+"/") {
			return "", malformed(href, "outside of %q", basePath)
		}
		p = strings.TrimPrefix(p, base)
	}

	p = strings.ReplaceAll(p, "//", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p, nil
}

// mergeProps folds every 2xx propstat into one Prop. Servers report
// missing properties in a separate 404 propstat.
func mergeProps(entry restypes.Response) (restypes.Prop, error) {
	var merged restypes.Prop
	found := false

	for _, ps := range entry.Propstat {
		code, err := restypes.ParseStatusLine(ps.Status)
		if err != nil {
			return merged, malformed(entry.Href, "propstat: %v", err)
		}
		if code/100 != 2 {
			continue
		}
		found = true
		merge(&merged, ps.Prop)
	}

	if !found {
		return merged, malformed(entry.Href, "no successful propstat")
	}
	return merged, nil
}

func merge(dst *restypes.Prop, src restypes.Prop) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.DisplayName, src.DisplayName)
	set(&dst.CreationDate, src.CreationDate)
	set(&dst.LastModified, src.LastModified)
	set(&dst.Etag, src.Etag)
	set(&dst.ContentType, src.ContentType)
	set(&dst.ContentLength, src.ContentLength)
	set(&dst.Permissions, src.Permissions)
	set(&dst.ID, src.ID)
	set(&dst.Size, src.Size)
	if src.ResourceType.IsCollection() {
		dst.ResourceType = src.ResourceType
	}
}

func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %d", n)
	}
	return n, nil
}

// normalizeETag drops the weak prefix and surrounding quotes.
func normalizeETag(etag string) string {
	etag = strings.TrimSpace(etag)
	etag = strings.TrimPrefix(etag, "W/")
	return strings.Trim(etag, `"`)
}
