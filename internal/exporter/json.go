// Package exporter serializes the whole directory, either as the native
// backup document or as Netscape bookmark HTML for other browsers.
package exporter

import (
	"encoding/json"
	"time"

	"github.com/nikbrunner/nav/internal/model"
)

// FormatVersion is the native export document version.
const FormatVersion = "1.0"

// Document is the native export shape. It round-trips through the import
// reconciler without loss.
type Document struct {
	FormatVersion string           `json:"_format_version"`
	ExportTime    time.Time        `json:"_export_time"`
	Categories    []model.Category `json:"categories"`
	Links         []model.Link     `json:"links"`
	MenuLinks     []model.MenuLink `json:"menu_links"`
}

// NewDocument builds the native export document from a snapshot.
func NewDocument(snapshot *model.Snapshot, exportTime time.Time) *Document {
	return &Document{
		FormatVersion: FormatVersion,
		ExportTime:    exportTime,
		Categories:    snapshot.Categories,
		Links:         snapshot.Links,
		MenuLinks:     snapshot.MenuLinks,
	}
}

// JSON serializes the snapshot as the indented native backup document.
func JSON(snapshot *model.Snapshot, exportTime time.Time) ([]byte, error) {
	return json.MarshalIndent(NewDocument(snapshot, exportTime), "", "  ")
}
