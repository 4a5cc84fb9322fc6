package importer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

const sampleBookmarkHTML = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://go.dev" ADD_DATE="1700000000">The Go Programming Language</A>
        <DT><H3>Tools</H3>
        <DL><p>
            <DT><H3>Deep</H3>
            <DL><p>
                <DT><A HREF="https://deep.example">Deep link</A>
            </DL><p>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://bare.example">Bare</A>
</DL><p>
`

func TestParseNetscapeHTML(t *testing.T) {
	doc, err := ParseNetscapeHTML(strings.NewReader(sampleBookmarkHTML))
	if err != nil {
		t.Fatalf("ParseNetscapeHTML failed: %v", err)
	}

	byName := make(map[string]DocCategory, len(doc.Categories))
	for _, c := range doc.Categories {
		byName[c.Name] = c
	}

	dev, ok := byName["Dev"]
	if !ok {
		t.Fatalf("category Dev missing, got %v", doc.Categories)
	}
	if !dev.ParentID.IsZero() {
		t.Errorf("Dev should be top level, has parent %s", dev.ParentID)
	}

	// Nested folders flatten onto the top-level ancestor.
	for _, name := range []string{"Tools", "Deep"} {
		cat, ok := byName[name]
		if !ok {
			t.Fatalf("category %s missing", name)
		}
		if cat.ParentID != dev.ID {
			t.Errorf("%s parent = %s, want %s (Dev)", name, cat.ParentID, dev.ID)
		}
	}

	byURL := make(map[string]DocLink, len(doc.Links))
	for _, l := range doc.Links {
		byURL[l.URL] = l
	}

	goLink, ok := byURL["https://go.dev"]
	if !ok {
		t.Fatalf("link https://go.dev missing, got %v", doc.Links)
	}
	if goLink.CategoryID != dev.ID {
		t.Errorf("go.dev placed in %s, want Dev", goLink.CategoryID)
	}
	if goLink.Title != "The Go Programming Language" {
		t.Errorf("title = %q", goLink.Title)
	}
	created, err := time.Parse(time.RFC3339, goLink.CreatedAt)
	if err != nil {
		t.Fatalf("created_at %q is not RFC3339: %v", goLink.CreatedAt, err)
	}
	if created.Unix() != 1700000000 {
		t.Errorf("created_at = %d, want 1700000000", created.Unix())
	}

	deepLink, ok := byURL["https://deep.example"]
	if !ok {
		t.Fatalf("link https://deep.example missing")
	}
	if deepLink.CategoryID != byName["Deep"].ID {
		t.Errorf("deep link placed in %s, want Deep", deepLink.CategoryID)
	}

	// Links outside any folder get the synthesized category.
	uncat, ok := byName["Uncategorized"]
	if !ok {
		t.Fatalf("Uncategorized category missing")
	}
	bare, ok := byURL["https://bare.example"]
	if !ok {
		t.Fatalf("link https://bare.example missing")
	}
	if bare.CategoryID != uncat.ID {
		t.Errorf("bare link placed in %s, want Uncategorized", bare.CategoryID)
	}
}

func TestParseNetscapeHTML_UntitledLink(t *testing.T) {
	doc, err := ParseNetscapeHTML(strings.NewReader(
		`<DL><p><DT><A HREF="https://www.example.com/page"></A></DL><p>`))
	if err != nil {
		t.Fatalf("ParseNetscapeHTML failed: %v", err)
	}
	if len(doc.Links) != 1 {
		t.Fatalf("got %d links, want 1", len(doc.Links))
	}
	if doc.Links[0].Title != "Example" {
		t.Errorf("title = %q, want %q", doc.Links[0].Title, "Example")
	}
}

func TestDetectShape(t *testing.T) {
	cases := []struct {
		name string
		data string
		want Shape
	}{
		{"native versioned", `{"_format_version": "1.0"}`, ShapeNative},
		{"native bare", `{"categories": [], "links": []}`, ShapeNative},
		{"browser", `{"roots": {"bookmark_bar": {}}}`, ShapeBrowser},
		{"unknown", `{"foo": 1}`, ShapeUnknown},
		{"not json", `hello`, ShapeUnknown},
	}
	for _, tc := range cases {
		if got := DetectShape([]byte(tc.data)); got != tc.want {
			t.Errorf("%s: DetectShape = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestForeignID_Decoding(t *testing.T) {
	var doc struct {
		ID ForeignID `json:"id"`
	}
	cases := []struct {
		data string
		want ForeignID
		zero bool
	}{
		{`{"id": "abc"}`, "abc", false},
		{`{"id": 42}`, "42", false},
		{`{"id": 0}`, "0", true},
		{`{"id": null}`, "", true},
		{`{}`, "", true},
	}
	for _, tc := range cases {
		doc.ID = ""
		if err := json.Unmarshal([]byte(tc.data), &doc); err != nil {
			t.Fatalf("%s: %v", tc.data, err)
		}
		if doc.ID != tc.want || doc.ID.IsZero() != tc.zero {
			t.Errorf("%s: got %q (zero=%v), want %q (zero=%v)",
				tc.data, doc.ID, doc.ID.IsZero(), tc.want, tc.zero)
		}
	}
}
