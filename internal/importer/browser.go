package importer

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/nikbrunner/nav/internal/errs"
)

// uncategorizedName is the synthesized category for bookmarks sitting
// directly on the bookmark bar.
const uncategorizedName = "Uncategorized"

type browserNode struct {
	Type     string        `json:"type"`
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Children []browserNode `json:"children"`
}

type browserDump struct {
	Roots map[string]browserNode `json:"roots"`
}

// parseBrowserBookmarks converts a Chrome/Edge bookmark dump into the
// normalized document shape. Folders on the bookmark bar become top-level
// categories and their subfolders subcategories; folders nested any deeper
// are flattened into subcategories of their bar-level ancestor, keeping the
// two-level category invariant. Bookmarks attach to their immediate
// enclosing folder's category, or to a synthesized "Uncategorized" category
// when none encloses them.
func parseBrowserBookmarks(data []byte) (*Document, error) {
	var dump browserDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, errs.Formatf("malformed browser bookmark document: %v", err)
	}

	bar, ok := dump.Roots["bookmark_bar"]
	if !ok {
		return nil, errs.Formatf("browser bookmark document has no bookmark_bar root")
	}

	doc := &Document{}
	nextID := 1
	var uncategorizedID ForeignID

	uncategorized := func() ForeignID {
		if uncategorizedID.IsZero() {
			uncategorizedID = synthID(nextID)
			nextID++
			doc.Categories = append(doc.Categories, DocCategory{
				ID:        uncategorizedID,
				Name:      uncategorizedName,
				Icon:      "📌",
				SortOrder: len(doc.Categories),
			})
		}
		return uncategorizedID
	}

	// category is the immediate enclosing folder's category, topLevel the
	// bar-level ancestor deeper folders flatten under.
	var walk func(nodes []browserNode, category, topLevel ForeignID)
	walk = func(nodes []browserNode, category, topLevel ForeignID) {
		for _, node := range nodes {
			switch node.Type {
			case "folder":
				if node.Name == "" {
					walk(node.Children, category, topLevel)
					continue
				}
				id := synthID(nextID)
				nextID++

				parent := topLevel
				doc.Categories = append(doc.Categories, DocCategory{
					ID:        id,
					Name:      node.Name,
					Icon:      "📁",
					ParentID:  parent,
					SortOrder: len(doc.Categories),
				})

				ancestor := topLevel
				if ancestor.IsZero() {
					ancestor = id
				}
				walk(node.Children, id, ancestor)

			case "url":
				if node.URL == "" {
					continue
				}
				target := category
				if target.IsZero() {
					target = uncategorized()
				}
				title := node.Name
				if title == "" {
					title = titleFromURL(node.URL)
				}
				doc.Links = append(doc.Links, DocLink{
					ID:          synthID(nextID),
					URL:         node.URL,
					Title:       title,
					Description: node.URL,
					Icon:        faviconURL(node.URL),
					CategoryID:  target,
				})
				nextID++
			}
		}
	}
	walk(bar.Children, "", "")

	return doc, nil
}

// faviconURL guesses a favicon location from the link's origin.
func faviconURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}

// titleFromURL derives a display title from the hostname's first label.
func titleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "Link"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	name, _, _ := strings.Cut(host, ".")
	if name == "" {
		return "Link"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
