package model

// Snapshot is a full read of the directory: every category, link and menu
// link. Used by the exporters and by read-only callers that want the whole
// tree at once.
type Snapshot struct {
	Categories []Category `json:"categories"`
	Links      []Link     `json:"links"`
	MenuLinks  []MenuLink `json:"menu_links"`
}

// NewSnapshot creates an empty Snapshot with initialized slices.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Categories: []Category{},
		Links:      []Link{},
		MenuLinks:  []MenuLink{},
	}
}

// CategoriesUnder returns categories with the given parent ID, in slice
// order. Pass nil for top-level categories.
func (s *Snapshot) CategoriesUnder(parentID *string) []Category {
	var result []Category
	for _, c := range s.Categories {
		if ptrEqual(c.ParentID, parentID) {
			result = append(result, c)
		}
	}
	return result
}

// LinksIn returns links placed in the given category, in slice order.
func (s *Snapshot) LinksIn(categoryID string) []Link {
	var result []Link
	for _, l := range s.Links {
		if l.CategoryID == categoryID {
			result = append(result, l)
		}
	}
	return result
}

// CategoryByID finds a category by ID, returns nil if not found.
func (s *Snapshot) CategoryByID(id string) *Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// ptrEqual compares two string pointers for equality.
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
