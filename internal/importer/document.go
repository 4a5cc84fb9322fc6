package importer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nikbrunner/nav/internal/errs"
)

// Document is the normalized import shape every supported input is parsed
// into before reconciliation. Foreign ids are local to the document; the
// reconciler remaps them to store ids.
type Document struct {
	FormatVersion string        `json:"_format_version"`
	ExportTime    string        `json:"_export_time"`
	Categories    []DocCategory `json:"categories"`
	Links         []DocLink     `json:"links"`
	MenuLinks     []DocMenuLink `json:"menu_links"`
}

// DocCategory is a category as it appears in an import document.
type DocCategory struct {
	ID        ForeignID `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	ParentID  ForeignID `json:"parent_id"`
	SortOrder int       `json:"sort_order"`
}

// DocLink is a link as it appears in an import document.
type DocLink struct {
	ID          ForeignID `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CategoryID  ForeignID `json:"category_id"`
	Tags        TagList   `json:"tags"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   string    `json:"created_at"`
}

// DocMenuLink is a menu link as it appears in an import document.
type DocMenuLink struct {
	ID        ForeignID `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Icon      string    `json:"icon"`
	Position  string    `json:"position"`
	SortOrder int       `json:"sort_order"`
}

// ForeignID is a document-local identifier. Native exports carry string
// ids, older backups and browser dumps carry numbers; both decode to the
// number's or string's text. Zero means "no reference": JSON null, a
// missing field, an empty string, or the number 0.
type ForeignID string

// UnmarshalJSON accepts strings, numbers and null.
func (f *ForeignID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = ForeignID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = ForeignID(n.String())
	return nil
}

// MarshalJSON emits the id as a string.
func (f ForeignID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// IsZero reports whether the id carries no reference.
func (f ForeignID) IsZero() bool {
	return f == "" || f == "0"
}

// TagList decodes link tags from either a JSON array or the legacy
// comma-separated string.
type TagList []string

// UnmarshalJSON accepts ["a","b"], "a,b", and null.
func (t *TagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if data[0] == '[' {
		var tags []string
		if err := json.Unmarshal(data, &tags); err != nil {
			return err
		}
		*t = tags
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	*t = tags
	return nil
}

// Shape identifies which recognized input a document matches.
type Shape int

const (
	// ShapeUnknown matches nothing recognized.
	ShapeUnknown Shape = iota
	// ShapeNative is the directory's own export document.
	ShapeNative
	// ShapeBrowser is a Chrome/Edge bookmark dump (roots tree).
	ShapeBrowser
)

// DetectShape classifies raw JSON. Native documents carry _format_version
// or both categories and links; browser dumps carry roots.
func DetectShape(data []byte) Shape {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ShapeUnknown
	}
	if _, ok := raw["roots"]; ok {
		return ShapeBrowser
	}
	if _, ok := raw["_format_version"]; ok {
		return ShapeNative
	}
	_, hasCategories := raw["categories"]
	_, hasLinks := raw["links"]
	if hasCategories && hasLinks {
		return ShapeNative
	}
	return ShapeUnknown
}

// Parse decodes raw JSON into the normalized document, detecting the shape
// first. Unrecognized shapes fail with a format error.
func Parse(data []byte) (*Document, error) {
	switch DetectShape(data) {
	case ShapeNative:
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errs.Formatf("malformed native document: %v", err)
		}
		return &doc, nil
	case ShapeBrowser:
		return parseBrowserBookmarks(data)
	default:
		return nil, errs.Formatf("document matches no recognized import shape")
	}
}

// synthID builds sequential foreign ids for parsers that invent documents
// (browser dumps, bookmark HTML).
func synthID(n int) ForeignID {
	return ForeignID("import-" + strconv.Itoa(n))
}
