// Package importer reconciles an externally supplied dataset (native
// backup, browser bookmark dump, or Netscape bookmark HTML) against the
// existing store: foreign ids are remapped, categories matched by name,
// links deduplicated by URL, and the whole merge committed atomically.
package importer

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
	"github.com/nikbrunner/nav/internal/ordering"
	"github.com/nikbrunner/nav/internal/storage"
)

// Reconciler merges import documents into the store.
type Reconciler struct {
	store *storage.Store
	log   *zap.Logger
}

// NewReconciler creates a Reconciler. A nil logger disables logging.
func NewReconciler(store *storage.Store, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{store: store, log: log}
}

// Result reports what a merge changed. On failure it carries the counts
// accumulated before the transaction rolled back, as diagnostic context;
// no partial data persists.
type Result struct {
	Added              int `json:"added"`
	Merged             int `json:"merged"`
	CategoriesImported int `json:"categoriesImported"`
}

// Import detects the document shape, parses it and merges it. Unrecognized
// shapes fail with a format error before anything is written.
func (r *Reconciler) Import(data []byte) (*Result, error) {
	doc, err := Parse(data)
	if err != nil {
		return &Result{}, err
	}
	return r.ImportDocument(doc)
}

// ImportHTML parses Netscape bookmark HTML and merges it.
func (r *Reconciler) ImportHTML(reader io.Reader) (*Result, error) {
	doc, err := ParseNetscapeHTML(reader)
	if err != nil {
		return &Result{}, errs.Formatf("malformed bookmark HTML: %v", err)
	}
	return r.ImportDocument(doc)
}

// ImportDocument merges a normalized document in one transaction:
//
//  1. Categories, pass 1: match by exact name or insert with a deferred
//     parent, building the foreign-id map.
//  2. Categories, pass 2: resolve parent pointers through the map (a child
//     may precede its parent in the document, hence two passes).
//  3. Links: resolve the category through the map (default category when
//     unmapped), dedupe by exact URL: merge metadata into an existing
//     link without touching its placement, insert otherwise.
//  4. Menu links: insert only when no (title, url) match exists.
//  5. Renumber every touched sibling group and commit.
//
// Any failure rolls the whole merge back; the returned result still carries
// the counts reached before the failure.
func (r *Reconciler) ImportDocument(doc *Document) (*Result, error) {
	result := &Result{}
	err := r.store.WithTx(func(tx *storage.Tx) error {
		categoryMap, err := r.reconcileCategories(tx, doc.Categories, result)
		if err != nil {
			return err
		}
		if err := r.reconcileLinks(tx, doc.Links, categoryMap, result); err != nil {
			return err
		}
		if err := r.reconcileMenuLinks(tx, doc.MenuLinks); err != nil {
			return err
		}
		return normalizeOrdering(tx)
	})
	if err != nil {
		return result, err
	}

	r.log.Info("import committed",
		zap.Int("added", result.Added),
		zap.Int("merged", result.Merged),
		zap.Int("categories", result.CategoriesImported))
	return result, nil
}

// reconcileCategories runs the two passes over imported categories and
// returns the foreign-id to store-id map.
func (r *Reconciler) reconcileCategories(tx *storage.Tx, categories []DocCategory, result *Result) (map[ForeignID]string, error) {
	categoryMap := make(map[ForeignID]string, len(categories))

	// Pass 1: give every imported category a final identity.
	topLevel, err := tx.CategoriesUnder(nil)
	if err != nil {
		return nil, err
	}
	nextTop := ordering.Next(categoryEntries(topLevel))

	for _, imported := range categories {
		if imported.Name == "" {
			r.log.Warn("skipping imported category without name")
			continue
		}
		existing, err := tx.CategoryByName(imported.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			categoryMap[imported.ID] = existing.ID
		} else {
			// Parent deferred to pass 2; appended at the top level for now.
			cat := model.NewCategory(model.NewCategoryParams{
				Name: imported.Name,
				Icon: imported.Icon,
			})
			cat.SortOrder = nextTop
			nextTop++
			if err := tx.InsertCategory(cat); err != nil {
				return nil, err
			}
			categoryMap[imported.ID] = cat.ID
		}
		result.CategoriesImported++
	}

	// Pass 2: resolve parent pointers now that every id is mapped. The
	// default category keeps its top-level position no matter what the
	// document claims.
	defaultID, err := tx.DefaultCategoryID()
	if err != nil {
		return nil, err
	}
	for _, imported := range categories {
		if imported.ParentID.IsZero() {
			continue
		}
		childID, okChild := categoryMap[imported.ID]
		parentID, okParent := categoryMap[imported.ParentID]
		if !okChild || !okParent || childID == parentID || childID == defaultID {
			continue
		}
		if err := tx.SetCategoryParent(childID, &parentID); err != nil {
			return nil, err
		}
	}

	// Imported graphs may nest deeper than the two levels the tree allows
	// (or cycle, on corrupted input); repoint every such category at its
	// top-level ancestor.
	if err := flattenTree(tx); err != nil {
		return nil, err
	}

	return categoryMap, nil
}

// reconcileLinks dedupes imported links by URL: merge metadata into an
// existing link (placement wins, only non-empty fields overwrite), insert
// new links appended to their resolved category.
func (r *Reconciler) reconcileLinks(tx *storage.Tx, links []DocLink, categoryMap map[ForeignID]string, result *Result) error {
	defaultID, err := tx.DefaultCategoryID()
	if err != nil {
		return err
	}

	// Append positions per destination group, computed on first use.
	nextOrder := make(map[string]int)
	appendOrder := func(categoryID string) (int, error) {
		next, ok := nextOrder[categoryID]
		if !ok {
			siblings, err := tx.LinksIn(categoryID)
			if err != nil {
				return 0, err
			}
			next = ordering.Next(linkEntries(siblings))
		}
		nextOrder[categoryID] = next + 1
		return next, nil
	}

	for _, imported := range links {
		if imported.URL == "" {
			r.log.Warn("skipping imported link without URL", zap.String("title", imported.Title))
			continue
		}

		categoryID, ok := categoryMap[imported.CategoryID]
		if !ok {
			categoryID = defaultID
		}

		existing, err := tx.LinkByURL(imported.URL)
		if err != nil {
			return err
		}
		if existing != nil {
			// Merge: refresh metadata, keep the existing placement.
			title := nonEmpty(imported.Title, existing.Title)
			description := nonEmpty(imported.Description, existing.Description)
			icon := nonEmpty(imported.Icon, existing.Icon)
			if err := tx.UpdateLinkMeta(existing.ID, title, description, icon); err != nil {
				return err
			}
			result.Merged++
			continue
		}

		order, err := appendOrder(categoryID)
		if err != nil {
			return err
		}
		link := model.NewLink(model.NewLinkParams{
			URL:         imported.URL,
			Title:       imported.Title,
			Description: imported.Description,
			Icon:        imported.Icon,
			CategoryID:  categoryID,
			Tags:        imported.Tags,
			CreatedAt:   parseTime(imported.CreatedAt),
		})
		link.SortOrder = order
		if err := tx.InsertLink(link); err != nil {
			return err
		}
		result.Added++
	}
	return nil
}

// reconcileMenuLinks inserts imported menu links absent from the store,
// matched by exact (title, url). Existing menu links are never updated.
func (r *Reconciler) reconcileMenuLinks(tx *storage.Tx, menuLinks []DocMenuLink) error {
	if len(menuLinks) == 0 {
		return nil
	}

	current, err := tx.MenuLinks()
	if err != nil {
		return err
	}
	next := ordering.Next(menuLinkEntries(current))

	for _, imported := range menuLinks {
		existing, err := tx.MenuLinkByTitleURL(imported.Title, imported.URL)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		menuLink := model.NewMenuLink(model.NewMenuLinkParams{
			Title:    imported.Title,
			URL:      imported.URL,
			Icon:     imported.Icon,
			Position: menuPosition(imported.Position),
		})
		menuLink.SortOrder = next
		next++
		if err := tx.InsertMenuLink(menuLink); err != nil {
			return err
		}
	}
	return nil
}

// flattenTree repoints categories whose parent is itself a subcategory at
// their top-level ancestor. Cycles (corrupted input) are broken by moving
// the category to the top level.
func flattenTree(tx *storage.Tx) error {
	categories, err := tx.AllCategories()
	if err != nil {
		return err
	}

	byID := make(map[string]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	for i := range categories {
		cat := &categories[i]
		if cat.ParentID == nil {
			continue
		}
		parent, ok := byID[*cat.ParentID]
		if !ok || parent.ParentID == nil {
			continue
		}

		// Walk up to the top-level ancestor.
		ancestor := parent
		steps := 0
		for ancestor.ParentID != nil {
			next, ok := byID[*ancestor.ParentID]
			if !ok {
				break
			}
			ancestor = next
			steps++
			if steps > len(categories) {
				// Cycle; detach to the top level.
				ancestor = nil
				break
			}
		}

		var newParent *string
		if ancestor != nil && ancestor.ID != cat.ID {
			id := ancestor.ID
			newParent = &id
		}
		if err := tx.SetCategoryParent(cat.ID, newParent); err != nil {
			return err
		}
		cat.ParentID = newParent
	}
	return nil
}

// normalizeOrdering renumbers every category and link sibling group so the
// merge leaves only dense zero-based orderings behind.
func normalizeOrdering(tx *storage.Tx) error {
	categories, err := tx.AllCategories()
	if err != nil {
		return err
	}

	parents := []*string{nil}
	for i := range categories {
		if categories[i].ParentID == nil {
			id := categories[i].ID
			parents = append(parents, &id)
		}
	}
	for _, parentID := range parents {
		group, err := tx.CategoriesUnder(parentID)
		if err != nil {
			return err
		}
		for _, w := range ordering.Renumber(categoryEntries(group)) {
			if err := tx.SetCategorySortOrder(w.ID, w.SortOrder); err != nil {
				return err
			}
		}
	}

	for _, cat := range categories {
		group, err := tx.LinksIn(cat.ID)
		if err != nil {
			return err
		}
		for _, w := range ordering.Renumber(linkEntries(group)) {
			if err := tx.SetLinkSortOrder(w.ID, w.SortOrder); err != nil {
				return err
			}
		}
	}
	return nil
}

func nonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func menuPosition(position string) string {
	if position == model.MenuPositionRight {
		return model.MenuPositionRight
	}
	return model.MenuPositionLeft
}

// parseTime accepts the timestamps the supported documents carry.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func categoryEntries(categories []model.Category) []ordering.Entry {
	entries := make([]ordering.Entry, len(categories))
	for i, c := range categories {
		entries[i] = ordering.Entry{ID: c.ID, SortOrder: c.SortOrder}
	}
	return entries
}

func linkEntries(links []model.Link) []ordering.Entry {
	entries := make([]ordering.Entry, len(links))
	for i, l := range links {
		entries[i] = ordering.Entry{ID: l.ID, SortOrder: l.SortOrder}
	}
	return entries
}

func menuLinkEntries(menuLinks []model.MenuLink) []ordering.Entry {
	entries := make([]ordering.Entry, len(menuLinks))
	for i, m := range menuLinks {
		entries[i] = ordering.Entry{ID: m.ID, SortOrder: m.SortOrder}
	}
	return entries
}
