package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/nav/internal/model"
)

// DefaultHTMLPath returns the default export file path.
// Format: ~/Downloads/nav-export-YYYY-MM-DD.html
func DefaultHTMLPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("nav-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// HTML exports the snapshot to Netscape bookmark HTML format. Top-level
// categories become folders, subcategories nested folders.
func HTML(snapshot *model.Snapshot) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	writeCategories(&b, snapshot, nil, 1)

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeCategories recursively writes the folders and links under a parent.
func writeCategories(b *strings.Builder, snapshot *model.Snapshot, parentID *string, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, cat := range snapshot.CategoriesUnder(parentID) {
		fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(cat.Name))
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)

		catID := cat.ID
		writeCategories(b, snapshot, &catID, indent+1)

		for _, link := range snapshot.LinksIn(cat.ID) {
			fmt.Fprintf(b,
				"%s    <DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
				prefix,
				html.EscapeString(link.URL),
				link.CreatedAt.Unix(),
				html.EscapeString(link.Title),
			)
		}

		fmt.Fprintf(b, "%s</DL><p>\n", prefix)
	}
}
