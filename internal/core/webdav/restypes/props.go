package restypes

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// XML namespaces
const (
	NamespaceDAV      = "DAV:"
	NamespaceOwnCloud = "http://owncloud.org/ns"
)

// Depth is the value of the Depth header of a PROPFIND.
type Depth string

const (
	DepthZero     Depth = "0"
	DepthOne      Depth = "1"
	DepthInfinity Depth = "infinity"
)

// PropName is one property requested by a PROPFIND.
type PropName struct {
	Space string
	Local string
}

// FilePropSet is the property set requested for file metadata reads.
var FilePropSet = []PropName{
	{NamespaceDAV, "displayname"},
	{NamespaceDAV, "getcontenttype"},
	{NamespaceDAV, "resourcetype"},
	{NamespaceDAV, "getcontentlength"},
	{NamespaceDAV, "getlastmodified"},
	{NamespaceDAV, "creationdate"},
	{NamespaceDAV, "getetag"},
	{NamespaceOwnCloud, "permissions"},
	{NamespaceOwnCloud, "id"},
	{NamespaceOwnCloud, "size"},
}

var prefixes = map[string]string{
	NamespaceDAV:      "d",
	NamespaceOwnCloud: "oc",
}

// PropfindBody renders the request body asking for props.
// Properties in unknown namespaces get their own xmlns declaration.
func PropfindBody(props []PropName) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<d:propfind xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns"><d:prop>`)
	for i, p := range props {
		if prefix, ok := prefixes[p.Space]; ok {
			fmt.Fprintf(&b, "<%s:%s/>", prefix, p.Local)
			continue
		}
		fmt.Fprintf(&b, `<x%d:%s xmlns:x%d="%s"/>`, i, p.Local, i, escapeAttr(p.Space))
	}
	b.WriteString(`</d:prop></d:propfind>`)
	return b.String()
}

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
