// Package placement owns the category_id and sort_order transitions of
// links: adding, editing, deleting, moving between categories and
// reordering within one. Every mutation leaves the touched sibling groups
// with a dense zero-based ordering.
package placement

import (
	"go.uber.org/zap"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
	"github.com/nikbrunner/nav/internal/ordering"
	"github.com/nikbrunner/nav/internal/storage"
)

// Engine performs link placement mutations.
type Engine struct {
	store *storage.Store
	log   *zap.Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(store *storage.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, log: log}
}

// Update describes a partial link edit. Nil fields are left unchanged.
// Changing CategoryID appends the link at the end of the new category.
type Update struct {
	URL         *string
	Title       *string
	Description *string
	Icon        *string
	Tags        []string // nil = unchanged
	CategoryID  *string
}

// Add creates a link appended at the end of its category. An empty
// CategoryID places the link in the default category.
func (e *Engine) Add(params model.NewLinkParams) (*model.Link, error) {
	if params.URL == "" {
		return nil, errs.Validationf("link URL must not be empty")
	}

	link := model.NewLink(params)
	err := e.store.WithTx(func(tx *storage.Tx) error {
		if link.CategoryID == "" {
			defaultID, err := tx.DefaultCategoryID()
			if err != nil {
				return err
			}
			link.CategoryID = defaultID
		} else {
			cat, err := tx.CategoryByID(link.CategoryID)
			if err != nil {
				return err
			}
			if cat == nil {
				return errs.NotFoundf("category %s", link.CategoryID)
			}
		}

		siblings, err := tx.LinksIn(link.CategoryID)
		if err != nil {
			return err
		}
		link.SortOrder = ordering.Next(linkEntries(siblings))

		return tx.InsertLink(link)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("link added",
		zap.String("id", link.ID),
		zap.String("url", link.URL),
		zap.String("category_id", link.CategoryID))
	return &link, nil
}

// Get returns a link by id.
func (e *Engine) Get(id string) (*model.Link, error) {
	link, err := e.store.Reader().LinkByID(id)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, errs.NotFoundf("link %s", id)
	}
	return link, nil
}

// Update edits a link. When the category changes, the link is appended to
// the destination group and the source group is renumbered.
func (e *Engine) Update(id string, update Update) error {
	err := e.store.WithTx(func(tx *storage.Tx) error {
		link, err := tx.LinkByID(id)
		if err != nil {
			return err
		}
		if link == nil {
			return errs.NotFoundf("link %s", id)
		}

		if update.URL != nil {
			if *update.URL == "" {
				return errs.Validationf("link URL must not be empty")
			}
			link.URL = *update.URL
		}
		if update.Title != nil {
			link.Title = *update.Title
		}
		if update.Description != nil {
			link.Description = *update.Description
		}
		if update.Icon != nil {
			link.Icon = *update.Icon
		}
		if update.Tags != nil {
			link.Tags = update.Tags
		}

		sourceID := link.CategoryID
		if update.CategoryID != nil && *update.CategoryID != link.CategoryID {
			dest, err := tx.CategoryByID(*update.CategoryID)
			if err != nil {
				return err
			}
			if dest == nil {
				return errs.NotFoundf("category %s", *update.CategoryID)
			}

			destLinks, err := tx.LinksIn(dest.ID)
			if err != nil {
				return err
			}
			link.CategoryID = dest.ID
			link.SortOrder = ordering.Next(linkEntries(destLinks))
		}

		if err := tx.UpdateLink(*link); err != nil {
			return err
		}
		if link.CategoryID != sourceID {
			return renumberLinks(tx, sourceID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info("link updated", zap.String("id", id))
	return nil
}

// Delete removes a link and renumbers the group it left.
func (e *Engine) Delete(id string) error {
	err := e.store.WithTx(func(tx *storage.Tx) error {
		link, err := tx.LinkByID(id)
		if err != nil {
			return err
		}
		if link == nil {
			return errs.NotFoundf("link %s", id)
		}

		if err := tx.DeleteLink(id); err != nil {
			return err
		}
		return renumberLinks(tx, link.CategoryID)
	})
	if err != nil {
		return err
	}

	e.log.Info("link deleted", zap.String("id", id))
	return nil
}

// Move relocates a link. At least one of targetCategoryID and
// targetSortOrder must be given. A move across categories splices the link
// into the destination at the requested position (append when absent) and
// renumbers both groups; a move within the category is a reorder. Moving a
// link onto its current position is a no-op.
func (e *Engine) Move(linkID string, targetCategoryID *string, targetSortOrder *int) error {
	if targetCategoryID == nil && targetSortOrder == nil {
		return errs.Validationf("move needs a target category or a target position")
	}

	err := e.store.WithTx(func(tx *storage.Tx) error {
		link, err := tx.LinkByID(linkID)
		if err != nil {
			return err
		}
		if link == nil {
			return errs.NotFoundf("link %s", linkID)
		}

		destID := link.CategoryID
		if targetCategoryID != nil {
			destID = *targetCategoryID
		}

		if destID != link.CategoryID {
			return moveAcross(tx, link, destID, targetSortOrder)
		}

		if targetSortOrder == nil || *targetSortOrder == link.SortOrder {
			// Moving onto itself
			return nil
		}
		return moveWithin(tx, link, *targetSortOrder)
	})
	if err != nil {
		return err
	}

	e.log.Info("link moved", zap.String("id", linkID))
	return nil
}

// Reorder rewrites the sort order of every link in one category to match
// orderedLinkIDs. The sequence must list the whole sibling group.
func (e *Engine) Reorder(categoryID string, orderedLinkIDs []string) error {
	return e.store.WithTx(func(tx *storage.Tx) error {
		cat, err := tx.CategoryByID(categoryID)
		if err != nil {
			return err
		}
		if cat == nil {
			return errs.NotFoundf("category %s", categoryID)
		}

		siblings, err := tx.LinksIn(categoryID)
		if err != nil {
			return err
		}
		if err := ordering.ValidateSequence(linkIDs(siblings), orderedLinkIDs); err != nil {
			return err
		}

		writes := ordering.Reindex(linkEntries(siblings), orderedLinkIDs)
		for _, w := range writes {
			if err := tx.SetLinkSortOrder(w.ID, w.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
}

// moveAcross splices a link into another category and renumbers both
// sibling groups in the same transaction, so no transient duplicate
// sort_order survives the move.
func moveAcross(tx *storage.Tx, link *model.Link, destID string, targetSortOrder *int) error {
	dest, err := tx.CategoryByID(destID)
	if err != nil {
		return err
	}
	if dest == nil {
		return errs.NotFoundf("category %s", destID)
	}

	destLinks, err := tx.LinksIn(destID)
	if err != nil {
		return err
	}

	position := len(destLinks)
	if targetSortOrder != nil {
		position = clamp(*targetSortOrder, 0, len(destLinks))
	}

	desired := make([]string, 0, len(destLinks)+1)
	for _, sibling := range destLinks {
		desired = append(desired, sibling.ID)
	}
	desired = append(desired[:position], append([]string{link.ID}, desired[position:]...)...)

	sourceID := link.CategoryID
	if err := tx.SetLinkPlacement(link.ID, destID, position); err != nil {
		return err
	}
	for _, w := range ordering.Reindex(linkEntries(destLinks), desired) {
		if err := tx.SetLinkSortOrder(w.ID, w.SortOrder); err != nil {
			return err
		}
	}
	return renumberLinks(tx, sourceID)
}

// moveWithin relocates a link inside its category by rebuilding the full
// sibling sequence and reindexing it.
func moveWithin(tx *storage.Tx, link *model.Link, targetSortOrder int) error {
	siblings, err := tx.LinksIn(link.CategoryID)
	if err != nil {
		return err
	}

	desired := make([]string, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID != link.ID {
			desired = append(desired, sibling.ID)
		}
	}
	position := clamp(targetSortOrder, 0, len(desired))
	desired = append(desired[:position], append([]string{link.ID}, desired[position:]...)...)

	for _, w := range ordering.Reindex(linkEntries(siblings), desired) {
		if err := tx.SetLinkSortOrder(w.ID, w.SortOrder); err != nil {
			return err
		}
	}
	return nil
}

// renumberLinks compacts one category's link group to 0..n-1.
func renumberLinks(tx *storage.Tx, categoryID string) error {
	links, err := tx.LinksIn(categoryID)
	if err != nil {
		return err
	}
	for _, w := range ordering.Renumber(linkEntries(links)) {
		if err := tx.SetLinkSortOrder(w.ID, w.SortOrder); err != nil {
			return err
		}
	}
	return nil
}

func linkEntries(links []model.Link) []ordering.Entry {
	entries := make([]ordering.Entry, len(links))
	for i, l := range links {
		entries[i] = ordering.Entry{ID: l.ID, SortOrder: l.SortOrder}
	}
	return entries
}

func linkIDs(links []model.Link) []string {
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.ID
	}
	return ids
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
