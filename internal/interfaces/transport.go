package interfaces

import (
	"time"

	restypes "github.com/davstat/internal/core/webdav/restypes"
)

// PathResolver maps logical remote paths onto the files DAV collection.
type PathResolver interface {
	// FilesDavURI returns the request URI for remotePath.
	FilesDavURI(remotePath string) (string, error)
	// FilesDavPath returns the unescaped path of the files collection,
	// the prefix every href of a multistatus body starts with.
	FilesDavPath() string
}

// PropfindCall is one PROPFIND request and the connection it holds.
// Release must be called once the call is no longer needed, whatever
// Execute returned.
type PropfindCall interface {
	Execute(readTimeout, connectTimeout time.Duration) (int, error)
	MultiStatus() (*restypes.Multistatus, error)
	// Exhaust drains the pending response body so the connection can be reused.
	Exhaust() error
	Release()
}

// TransportClient defines what remote operations need from a connected
// WebDAV client. Implementations (webdav.Client or test fakes) should
// provide all methods below.
type TransportClient interface {
	PathResolver
	NewPropfind(uri string, props []restypes.PropName, depth restypes.Depth) PropfindCall
}
