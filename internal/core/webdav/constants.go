package webdav

// HTTP methods used in WebDAV protocol
const PROPFIND = "PROPFIND"

// HTTP status codes used in WebDAV protocol
const (
	StatusMultiStatus         = 207
	StatusLocked              = 423
	StatusInsufficientStorage = 507
)

// HTTP headers used in WebDAV protocol
const (
	DepthHeader     = "Depth"
	RequestIDHeader = "X-Request-ID"
)

// DefaultDavRoot is the files collection of an ownCloud/Nextcloud server.
// The {user} placeholder is replaced with the login name.
const DefaultDavRoot = "/remote.php/dav/files/{user}"
