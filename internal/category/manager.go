// Package category maintains the two-level category tree: structural
// validation, cascade deletion and orphan repair. It owns the parent_id
// field of categories; nobody else rewires the tree.
package category

import (
	"go.uber.org/zap"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
	"github.com/nikbrunner/nav/internal/ordering"
	"github.com/nikbrunner/nav/internal/storage"
)

// Manager performs structural mutations on the category tree.
type Manager struct {
	store *storage.Store
	log   *zap.Logger
}

// NewManager creates a Manager. A nil logger disables logging.
func NewManager(store *storage.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, log: log}
}

// Update describes a partial category update. Nil fields are left
// unchanged; SetParent marks ParentID as intentional (a nil ParentID with
// SetParent moves the category to the top level).
type Update struct {
	Name      *string
	Icon      *string
	SetParent bool
	ParentID  *string
}

// DeleteResult reports what a cascade or orphan cleanup removed.
type DeleteResult struct {
	DeletedCategoryIDs []string
	DeletedLinkCount   int
}

// Create adds a category appended at the end of its sibling group.
// The parent, if given, must exist and must itself be top-level.
func (m *Manager) Create(params model.NewCategoryParams) (*model.Category, error) {
	if params.Name == "" {
		return nil, errs.Validationf("category name must not be empty")
	}

	cat := model.NewCategory(params)
	err := m.store.WithTx(func(tx *storage.Tx) error {
		existing, err := tx.CategoryByName(params.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.Conflictf("category %q already exists", params.Name)
		}

		if params.ParentID != nil {
			if err := validateParent(tx, *params.ParentID); err != nil {
				return err
			}
		}

		siblings, err := tx.CategoriesUnder(params.ParentID)
		if err != nil {
			return err
		}
		cat.SortOrder = ordering.Next(categoryEntries(siblings))

		return tx.InsertCategory(cat)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("category created",
		zap.String("id", cat.ID),
		zap.String("name", cat.Name),
		zap.Bool("top_level", cat.IsTopLevel()))
	return &cat, nil
}

// Get returns a category by id.
func (m *Manager) Get(id string) (*model.Category, error) {
	cat, err := m.store.Reader().CategoryByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errs.NotFoundf("category %s", id)
	}
	return cat, nil
}

// Update changes a category's name, icon or parent. Reparenting appends the
// category to its new sibling group and renumbers the group it left.
// A category that has children cannot acquire a parent, and the default
// category always stays top-level.
func (m *Manager) Update(id string, update Update) error {
	err := m.store.WithTx(func(tx *storage.Tx) error {
		cat, err := tx.CategoryByID(id)
		if err != nil {
			return err
		}
		if cat == nil {
			return errs.NotFoundf("category %s", id)
		}

		if update.Name != nil && *update.Name != cat.Name {
			if *update.Name == "" {
				return errs.Validationf("category name must not be empty")
			}
			existing, err := tx.CategoryByName(*update.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				return errs.Conflictf("category %q already exists", *update.Name)
			}
			cat.Name = *update.Name
		}

		if update.Icon != nil {
			cat.Icon = *update.Icon
		}

		if update.SetParent && !sameParent(update.ParentID, cat.ParentID) {
			oldParent := cat.ParentID

			if update.ParentID != nil {
				if *update.ParentID == id {
					return errs.Validationf("category cannot be its own parent")
				}
				defaultID, err := tx.DefaultCategoryID()
				if err != nil {
					return err
				}
				if id == defaultID {
					return errs.Validationf("the default category must stay top-level")
				}
				children, err := tx.CategoriesUnder(&id)
				if err != nil {
					return err
				}
				if len(children) > 0 {
					return errs.Validationf("category with subcategories cannot become a subcategory")
				}
				if err := validateParent(tx, *update.ParentID); err != nil {
					return err
				}
			}

			newSiblings, err := tx.CategoriesUnder(update.ParentID)
			if err != nil {
				return err
			}
			cat.ParentID = update.ParentID
			cat.SortOrder = ordering.Next(categoryEntries(newSiblings))

			if err := tx.UpdateCategory(*cat); err != nil {
				return err
			}
			return renumberCategories(tx, oldParent)
		}

		return tx.UpdateCategory(*cat)
	})
	if err != nil {
		return err
	}

	m.log.Info("category updated", zap.String("id", id))
	return nil
}

// Delete cascades: it removes the category, its direct subcategories, and
// every link they own. The default category's row survives even when
// targeted; its subcategories and links are still removed so the result is
// a clean, always-present destination.
func (m *Manager) Delete(id string) (*DeleteResult, error) {
	result := &DeleteResult{DeletedCategoryIDs: []string{}}
	err := m.store.WithTx(func(tx *storage.Tx) error {
		cat, err := tx.CategoryByID(id)
		if err != nil {
			return err
		}
		if cat == nil {
			return errs.NotFoundf("category %s", id)
		}

		children, err := tx.CategoriesUnder(&id)
		if err != nil {
			return err
		}
		affected := make([]string, 0, len(children)+1)
		affected = append(affected, id)
		for _, child := range children {
			affected = append(affected, child.ID)
		}

		linkCount, err := tx.DeleteLinksInCategories(affected)
		if err != nil {
			return err
		}
		result.DeletedLinkCount = linkCount

		defaultID, err := tx.DefaultCategoryID()
		if err != nil {
			return err
		}
		for _, catID := range affected {
			if catID != defaultID {
				result.DeletedCategoryIDs = append(result.DeletedCategoryIDs, catID)
			}
		}

		if err := tx.DeleteCategories(result.DeletedCategoryIDs); err != nil {
			return err
		}

		// Close the gap in the sibling group the target left behind.
		return renumberCategories(tx, cat.ParentID)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("category deleted",
		zap.String("id", id),
		zap.Int("categories", len(result.DeletedCategoryIDs)),
		zap.Int("links", result.DeletedLinkCount))
	return result, nil
}

// ClearLinks deletes every link in a single category without deleting the
// category itself. Irreversible.
func (m *Manager) ClearLinks(id string) (int, error) {
	var count int
	err := m.store.WithTx(func(tx *storage.Tx) error {
		cat, err := tx.CategoryByID(id)
		if err != nil {
			return err
		}
		if cat == nil {
			return errs.NotFoundf("category %s", id)
		}

		count, err = tx.DeleteLinksInCategories([]string{id})
		return err
	})
	if err != nil {
		return 0, err
	}

	m.log.Info("category links cleared", zap.String("id", id), zap.Int("links", count))
	return count, nil
}

// FindOrphans returns categories whose parent pointer no longer resolves.
// Orphans arise only from data corruption or a partially applied import.
func (m *Manager) FindOrphans() ([]model.Category, error) {
	return m.store.Reader().OrphanCategories()
}

// CleanupOrphans deletes every orphan and, transitively, every link owned
// by an orphan. Runs to a fixpoint so a chain of dangling parents is fully
// cleared; a second call returns an empty result.
func (m *Manager) CleanupOrphans() (*DeleteResult, error) {
	result := &DeleteResult{DeletedCategoryIDs: []string{}}
	err := m.store.WithTx(func(tx *storage.Tx) error {
		for {
			orphans, err := tx.OrphanCategories()
			if err != nil {
				return err
			}
			if len(orphans) == 0 {
				return nil
			}

			ids := make([]string, len(orphans))
			for i, o := range orphans {
				ids[i] = o.ID
			}

			linkCount, err := tx.DeleteLinksInCategories(ids)
			if err != nil {
				return err
			}
			if err := tx.DeleteCategories(ids); err != nil {
				return err
			}

			result.DeletedCategoryIDs = append(result.DeletedCategoryIDs, ids...)
			result.DeletedLinkCount += linkCount
		}
	})
	if err != nil {
		return nil, err
	}

	if len(result.DeletedCategoryIDs) > 0 {
		m.log.Info("orphan categories cleaned up",
			zap.Int("categories", len(result.DeletedCategoryIDs)),
			zap.Int("links", result.DeletedLinkCount))
	}
	return result, nil
}

// Reorder rewrites the sort order of one sibling group to match orderedIDs.
// The sequence must list every category in the group exactly once.
func (m *Manager) Reorder(parentID *string, orderedIDs []string) error {
	return m.store.WithTx(func(tx *storage.Tx) error {
		siblings, err := tx.CategoriesUnder(parentID)
		if err != nil {
			return err
		}
		if err := ordering.ValidateSequence(categoryIDs(siblings), orderedIDs); err != nil {
			return err
		}

		writes := ordering.Reindex(categoryEntries(siblings), orderedIDs)
		for _, w := range writes {
			if err := tx.SetCategorySortOrder(w.ID, w.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
}

// validateParent ensures parentID names an existing top-level category.
func validateParent(tx *storage.Tx, parentID string) error {
	parent, err := tx.CategoryByID(parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return errs.NotFoundf("parent category %s", parentID)
	}
	if parent.ParentID != nil {
		return errs.Validationf("subcategory %q cannot have children", parent.Name)
	}
	return nil
}

// renumberCategories compacts one sibling group to 0..n-1.
func renumberCategories(tx *storage.Tx, parentID *string) error {
	siblings, err := tx.CategoriesUnder(parentID)
	if err != nil {
		return err
	}
	for _, w := range ordering.Renumber(categoryEntries(siblings)) {
		if err := tx.SetCategorySortOrder(w.ID, w.SortOrder); err != nil {
			return err
		}
	}
	return nil
}

func categoryEntries(categories []model.Category) []ordering.Entry {
	entries := make([]ordering.Entry, len(categories))
	for i, c := range categories {
		entries[i] = ordering.Entry{ID: c.ID, SortOrder: c.SortOrder}
	}
	return entries
}

func categoryIDs(categories []model.Category) []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func sameParent(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
