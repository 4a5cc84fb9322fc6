package model

import "time"

// Link represents a saved URL with display metadata, placed in exactly one
// category. SortOrder positions the link inside that category.
type Link struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CategoryID  string    `json:"category_id"`
	Tags        []string  `json:"tags"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewLinkParams holds parameters for creating a new Link.
type NewLinkParams struct {
	URL         string
	Title       string
	Description string
	Icon        string
	CategoryID  string
	Tags        []string
	CreatedAt   time.Time // zero = now
}

// NewLink creates a Link with a generated ID and timestamp.
func NewLink(params NewLinkParams) Link {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return Link{
		ID:          NewID(),
		URL:         params.URL,
		Title:       params.Title,
		Description: params.Description,
		Icon:        params.Icon,
		CategoryID:  params.CategoryID,
		Tags:        tags,
		CreatedAt:   createdAt,
	}
}
