package files

import (
	"fmt"
	"strings"
	"time"
)

// FolderContentType is reported for collections that carry no content type.
const FolderContentType = "DIR"

// FileMetadata is one file or folder as reported by the server.
// Values are only built by Parse and never change afterwards.
type FileMetadata struct {
	path        string
	name        string
	displayName string
	contentType string
	size        int64
	created     time.Time
	modified    time.Time
	etag        string
	permissions string
	remoteID    string
	isFolder    bool
}

// Path is relative to the files collection; folders end with "/".
func (f *FileMetadata) Path() string        { return f.path }
func (f *FileMetadata) Name() string        { return f.name }
func (f *FileMetadata) DisplayName() string { return f.displayName }
func (f *FileMetadata) ContentType() string { return f.contentType }
func (f *FileMetadata) Size() int64         { return f.size }
func (f *FileMetadata) Created() time.Time  { return f.created }
func (f *FileMetadata) Modified() time.Time { return f.modified }
func (f *FileMetadata) ETag() string        { return f.etag }
func (f *FileMetadata) Permissions() string { return f.permissions }
func (f *FileMetadata) RemoteID() string    { return f.remoteID }
func (f *FileMetadata) IsFolder() bool      { return f.isFolder }

// HasPermission reports whether the server granted the permission letter,
// e.g. 'W' (write) or 'D' (delete).
func (f *FileMetadata) HasPermission(p rune) bool {
	return strings.ContainsRune(f.permissions, p)
}

func (f *FileMetadata) String() string {
	kind := "file"
	if f.isFolder {
		kind = "folder"
	}
	return fmt.Sprintf("FileMetadata{%s %q, size=%d, type=%s, etag=%s, modified=%s}",
		kind, f.path, f.size, f.contentType, f.etag, f.modified.Format(time.RFC3339))
}
