package files

import (
	"errors"
	"testing"
	"time"

	restypes "github.com/davstat/internal/core/webdav/restypes"
)

const base = "/remote.php/dav/files/alice"

func ok(p restypes.Prop) restypes.Propstat {
	return restypes.Propstat{Prop: p, Status: "HTTP/1.1 200 OK"}
}

func TestParseFileRoundTrip(t *testing.T) {
	created := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	modified := time.Date(2025, 10, 12, 12, 29, 35, 0, time.UTC)

	entry := restypes.Response{
		Href: base + "/docs/report.pdf",
		Propstat: []restypes.Propstat{
			ok(restypes.Prop{
				DisplayName:   "Quarterly report",
				ContentType:   "application/pdf",
				ContentLength: "1024",
				CreationDate:  created.Format(time.RFC3339),
				LastModified:  modified.Format("Mon, 02 Jan 2006 15:04:05 GMT"),
				Etag:          `"5f2b1c"`,
				Permissions:   "RGDNVW",
				ID:            "00000042oc",
			}),
			{Prop: restypes.Prop{Size: ""}, Status: "HTTP/1.1 404 Not Found"},
		},
	}

	f, err := Parse(entry, base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if f.Path() != "/docs/report.pdf" || f.Name() != "report.pdf" {
		t.Errorf("unexpected path/name %q %q", f.Path(), f.Name())
	}
	if f.DisplayName() != "Quarterly report" || f.ContentType() != "application/pdf" {
		t.Errorf("unexpected display name/type %q %q", f.DisplayName(), f.ContentType())
	}
	if f.Size() != 1024 || f.IsFolder() {
		t.Errorf("unexpected size/folder %d %v", f.Size(), f.IsFolder())
	}
	if !f.Created().Equal(created) || !f.Modified().Equal(modified) {
		t.Errorf("unexpected times %s %s", f.Created(), f.Modified())
	}
	if f.ETag() != "5f2b1c" {
		t.Errorf("unexpected etag %q", f.ETag())
	}
	if f.Permissions() != "RGDNVW" || !f.HasPermission('W') || f.HasPermission('S') {
		t.Errorf("unexpected permissions %q", f.Permissions())
	}
	if f.RemoteID() != "00000042oc" {
		t.Errorf("unexpected remote id %q", f.RemoteID())
	}
}

func TestParseFolder(t *testing.T) {
	entry := restypes.Response{
		Href: base + "/photos",
		Propstat: []restypes.Propstat{
			ok(restypes.Prop{ResourceType: restypes.ResourceType{Collection: &struct{}{}}}),
			ok(restypes.Prop{Size: "4096", Etag: `W/"abc"`}),
		},
	}

	f, err := Parse(entry, base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !f.IsFolder() || f.Path() != "/photos/" || f.Name() != "photos" {
		t.Fatalf("unexpected folder %s", f)
	}
	if f.ContentType() != FolderContentType || f.Size() != 4096 || f.ETag() != "abc" {
		t.Fatalf("unexpected folder props %s", f)
	}
}

func TestParseRootAndEscapes(t *testing.T) {
	root, err := Parse(restypes.Response{
		Href:     base + "/",
		Propstat: []restypes.Propstat{ok(restypes.Prop{ResourceType: restypes.ResourceType{Collection: &struct{}{}}})},
	}, base+"/")
	if err != nil {
		t.Fatalf("Parse root failed: %v", err)
	}
	if root.Path() != "/" || root.Name() != "" {
		t.Fatalf("unexpected root %q %q", root.Path(), root.Name())
	}

	f, err := Parse(restypes.Response{
		Href:     "https://cloud.example.com" + base + "/my%20docs/a%23b.txt",
		Propstat: []restypes.Propstat{ok(restypes.Prop{ContentLength: "3"})},
	}, base)
	if err != nil {
		t.Fatalf("Parse escaped failed: %v", err)
	}
	if f.Path() != "/my docs/a#b.txt" || f.Name() != "a#b.txt" {
		t.Fatalf("unexpected decoded path %q name %q", f.Path(), f.Name())
	}

	plain, err := Parse(restypes.Response{
		Href:     "/a.txt",
		Propstat: []restypes.Propstat{ok(restypes.Prop{})},
	}, "/")
	if err != nil {
		t.Fatalf("Parse with server root failed: %v", err)
	}
	if plain.Path() != "/a.txt" || plain.ContentType() != "" || plain.Size() != 0 {
		t.Fatalf("unexpected %s", plain)
	}
}

func TestParseMalformed(t *testing.T) {
	good := ok(restypes.Prop{ContentLength: "1"})

	tests := []struct {
		name  string
		entry restypes.Response
	}{
		{"no href", restypes.Response{Propstat: []restypes.Propstat{good}}},
		{"outside base", restypes.Response{Href: "/remote.php/dav/files/bob/a.txt", Propstat: []restypes.Propstat{good}}},
		{"prefix but not child", restypes.Response{Href: base + "x/a.txt", Propstat: []restypes.Propstat{good}}},
		{"bad escape", restypes.Response{Href: base + "/%zz", Propstat: []restypes.Propstat{good}}},
		{"no propstat", restypes.Response{Href: base + "/a.txt"}},
		{"only 404 propstat", restypes.Response{Href: base + "/a.txt", Propstat: []restypes.Propstat{
			{Prop: restypes.Prop{ContentLength: "1"}, Status: "HTTP/1.1 404 Not Found"},
		}}},
		{"bad propstat status", restypes.Response{Href: base + "/a.txt", Propstat: []restypes.Propstat{
			{Prop: restypes.Prop{}, Status: "OK"},
		}}},
		{"resource status 404", restypes.Response{Href: base + "/a.txt", Status: "HTTP/1.1 404 Not Found"}},
		{"bad size", restypes.Response{Href: base + "/a.txt", Propstat: []restypes.Propstat{ok(restypes.Prop{ContentLength: "big"})}}},
		{"negative size", restypes.Response{Href: base + "/a.txt", Propstat: []restypes.Propstat{ok(restypes.Prop{ContentLength: "-1"})}}},
		{"bad folder size", restypes.Response{Href: base + "/d/", Propstat: []restypes.Propstat{ok(restypes.Prop{
			ResourceType: restypes.ResourceType{Collection: &struct{}{}}, Size: "x",
		})}}},
		{"bad modified", restypes.Response{Href: base + "/a.txt", Propstat: []restypes.Propstat{ok(restypes.Prop{LastModified: "yesterday"})}}},
		{"bad created", restypes.Response{Href: base + "/a.txt", Propstat: []restypes.Propstat{ok(restypes.Prop{CreationDate: "2025-13-01"})}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.entry, base)
			if !errors.Is(err, ErrMalformedEntry) {
				t.Fatalf("expected ErrMalformedEntry, got %v (%v)", err, f)
			}
		})
	}
}
