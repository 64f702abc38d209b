package restypes

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Multistatus is the body of a 207 response.
type Multistatus struct {
	XMLName   xml.Name   `xml:"multistatus"` // Match the local name only
	Responses []Response `xml:"response"`
}

type Response struct {
	Href     string     `xml:"href"`
	Status   string     `xml:"status"` // set by some servers when the whole resource failed
	Propstat []Propstat `xml:"propstat"`
}

type Propstat struct {
	Prop   Prop   `xml:"prop"`
	Status string `xml:"status"`
}

// Prop keeps every value as raw text; conversion happens in the files
// package so malformed values surface as parse errors of one entry.
type Prop struct {
	DisplayName   string       `xml:"displayname"`
	ResourceType  ResourceType `xml:"resourcetype"`
	CreationDate  string       `xml:"creationdate"`
	LastModified  string       `xml:"getlastmodified"`
	Etag          string       `xml:"getetag"`
	ContentType   string       `xml:"getcontenttype"`
	ContentLength string       `xml:"getcontentlength"`

	// owncloud namespace
	Permissions string `xml:"permissions"`
	ID          string `xml:"id"`
	Size        string `xml:"size"`
}

type ResourceType struct {
	Collection *struct{} `xml:"collection"`
}

func (r ResourceType) IsCollection() bool {
	return r.Collection != nil
}

// ParseStatusLine extracts the code of a "HTTP/1.1 200 OK" status line.
func ParseStatusLine(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return 0, fmt.Errorf("invalid status line %q", line)
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("invalid status code in %q: %w", line, err)
	}
	return code, nil
}
