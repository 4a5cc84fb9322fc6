package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ParseNetscapeHTML parses Netscape bookmark HTML (the format browsers use
// for manual exports) into the normalized document shape. Folder nesting
// follows the same flattening rule as browser JSON dumps: top folders
// become categories, deeper folders subcategories of their top ancestor.
func ParseNetscapeHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	nextID := 1

	// Track the enclosing folder chain for hierarchy
	type frame struct {
		id       ForeignID
		topLevel ForeignID
	}
	var stack []frame
	var pending *frame // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name == "" {
					return
				}
				id := synthID(nextID)
				nextID++

				var parent, topLevel ForeignID
				if len(stack) > 0 {
					parent = stack[len(stack)-1].topLevel
					topLevel = stack[len(stack)-1].topLevel
				}
				if topLevel.IsZero() {
					topLevel = id
				}

				doc.Categories = append(doc.Categories, DocCategory{
					ID:        id,
					Name:      name,
					Icon:      "📁",
					ParentID:  parent,
					SortOrder: len(doc.Categories),
				})

				// Pushed when we see the folder's DL
				pending = &frame{id: id, topLevel: topLevel}
				return

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = titleFromURL(href)
				}

				var category ForeignID
				if len(stack) > 0 {
					category = stack[len(stack)-1].id
				}

				var createdAt string
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						createdAt = time.Unix(ts, 0).Format(time.RFC3339)
					}
				}

				doc.Links = append(doc.Links, DocLink{
					ID:          synthID(nextID),
					URL:         href,
					Title:       title,
					Icon:        faviconURL(href),
					CategoryID:  category,
					CreatedAt:   createdAt,
				})
				nextID++
				return

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, *pending)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed && len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(root)

	// Bookmarks outside any folder need a home
	if hasUnplacedLinks(doc) {
		id := synthID(nextID)
		doc.Categories = append(doc.Categories, DocCategory{
			ID:        id,
			Name:      uncategorizedName,
			Icon:      "📌",
			SortOrder: len(doc.Categories),
		})
		for i := range doc.Links {
			if doc.Links[i].CategoryID.IsZero() {
				doc.Links[i].CategoryID = id
			}
		}
	}

	return doc, nil
}

func hasUnplacedLinks(doc *Document) bool {
	for _, l := range doc.Links {
		if l.CategoryID.IsZero() {
			return true
		}
	}
	return false
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
