package model

// Category is a container for links. Categories form a two-level tree:
// a category with a nil ParentID is a top-level category, one with a
// non-nil ParentID is a subcategory. Subcategories may not have children.
type Category struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Icon      string  `json:"icon"`
	ParentID  *string `json:"parent_id"` // nil = top level
	SortOrder int     `json:"sort_order"`
}

// NewCategoryParams holds parameters for creating a new Category.
type NewCategoryParams struct {
	Name     string
	Icon     string
	ParentID *string
}

// NewCategory creates a Category with a generated ID. SortOrder is left at
// zero; callers append the category to its sibling group before persisting.
func NewCategory(params NewCategoryParams) Category {
	return Category{
		ID:       NewID(),
		Name:     params.Name,
		Icon:     params.Icon,
		ParentID: params.ParentID,
	}
}

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool {
	return c.ParentID == nil
}
