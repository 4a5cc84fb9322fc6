package model

// Menu link positions.
const (
	MenuPositionLeft  = "left"
	MenuPositionRight = "right"
)

// MenuLink is a navigation shortcut shown outside the category tree.
type MenuLink struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Icon      string `json:"icon"`
	Position  string `json:"position"`
	SortOrder int    `json:"sort_order"`
}

// NewMenuLinkParams holds parameters for creating a new MenuLink.
type NewMenuLinkParams struct {
	Title    string
	URL      string
	Icon     string
	Position string // empty = left
}

// NewMenuLink creates a MenuLink with a generated ID.
func NewMenuLink(params NewMenuLinkParams) MenuLink {
	position := params.Position
	if position == "" {
		position = MenuPositionLeft
	}

	return MenuLink{
		ID:       NewID(),
		Title:    params.Title,
		URL:      params.URL,
		Icon:     params.Icon,
		Position: position,
	}
}
