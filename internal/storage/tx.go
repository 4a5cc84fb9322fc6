package storage

import (
	"database/sql"
	"strings"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
)

// querier abstracts *sql.DB and *sql.Tx so the same record operations
// serve both transactional and direct access.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Tx provides record-level access to the store. Obtained from Store.WithTx
// (transaction-backed) or Store.Reader (connection-backed).
type Tx struct {
	q querier
}

const categoryColumns = "id, name, icon, parent_id, sort_order"

// InsertCategory persists a new category.
func (t *Tx) InsertCategory(c model.Category) error {
	_, err := t.q.Exec(`
		INSERT INTO categories (id, name, icon, parent_id, sort_order)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Icon, c.ParentID, c.SortOrder)
	return errs.StorageErr("insert category", err)
}

// UpdateCategory overwrites all mutable fields of a category.
func (t *Tx) UpdateCategory(c model.Category) error {
	_, err := t.q.Exec(`
		UPDATE categories SET name = ?, icon = ?, parent_id = ?, sort_order = ?
		WHERE id = ?
	`, c.Name, c.Icon, c.ParentID, c.SortOrder, c.ID)
	return errs.StorageErr("update category", err)
}

// SetCategoryParent repoints a category's parent.
func (t *Tx) SetCategoryParent(id string, parentID *string) error {
	_, err := t.q.Exec("UPDATE categories SET parent_id = ? WHERE id = ?", parentID, id)
	return errs.StorageErr("set category parent", err)
}

// SetCategorySortOrder assigns a category's position in its sibling group.
func (t *Tx) SetCategorySortOrder(id string, order int) error {
	_, err := t.q.Exec("UPDATE categories SET sort_order = ? WHERE id = ?", order, id)
	return errs.StorageErr("set category sort order", err)
}

// DeleteCategories removes categories by id.
func (t *Tx) DeleteCategories(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.q.Exec(
		"DELETE FROM categories WHERE id IN ("+placeholders(len(ids))+")",
		idArgs(ids)...,
	)
	return errs.StorageErr("delete categories", err)
}

// CategoryByID returns the category with the given id, or nil if absent.
func (t *Tx) CategoryByID(id string) (*model.Category, error) {
	row := t.q.QueryRow("SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	return scanCategoryRow(row)
}

// CategoryByName returns the category with the given exact name, or nil if
// absent. Names are unique store-wide.
func (t *Tx) CategoryByName(name string) (*model.Category, error) {
	row := t.q.QueryRow("SELECT "+categoryColumns+" FROM categories WHERE name = ?", name)
	return scanCategoryRow(row)
}

// CategoriesUnder returns the sibling group sharing the given parent,
// ordered by sort_order. Pass nil for top-level categories.
func (t *Tx) CategoriesUnder(parentID *string) ([]model.Category, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = t.q.Query("SELECT " + categoryColumns + " FROM categories WHERE parent_id IS NULL ORDER BY sort_order, id")
	} else {
		rows, err = t.q.Query("SELECT "+categoryColumns+" FROM categories WHERE parent_id = ? ORDER BY sort_order, id", *parentID)
	}
	if err != nil {
		return nil, errs.StorageErr("query sibling categories", err)
	}
	return scanCategories(rows)
}

// AllCategories returns every category ordered by sort_order.
func (t *Tx) AllCategories() ([]model.Category, error) {
	rows, err := t.q.Query("SELECT " + categoryColumns + " FROM categories ORDER BY sort_order, id")
	if err != nil {
		return nil, errs.StorageErr("query categories", err)
	}
	return scanCategories(rows)
}

// OrphanCategories returns categories whose parent pointer no longer
// resolves to an existing category.
func (t *Tx) OrphanCategories() ([]model.Category, error) {
	rows, err := t.q.Query(`
		SELECT ` + categoryColumns + ` FROM categories c
		WHERE c.parent_id IS NOT NULL
		AND NOT EXISTS (SELECT 1 FROM categories p WHERE p.id = c.parent_id)
		ORDER BY c.sort_order, c.id
	`)
	if err != nil {
		return nil, errs.StorageErr("query orphan categories", err)
	}
	return scanCategories(rows)
}

// Snapshot reads the whole directory at once.
func (t *Tx) Snapshot() (*model.Snapshot, error) {
	snapshot := model.NewSnapshot()

	categories, err := t.AllCategories()
	if err != nil {
		return nil, err
	}
	snapshot.Categories = categories

	links, err := t.AllLinks()
	if err != nil {
		return nil, err
	}
	snapshot.Links = links

	menuLinks, err := t.MenuLinks()
	if err != nil {
		return nil, err
	}
	snapshot.MenuLinks = menuLinks

	return snapshot, nil
}

func scanCategoryRow(row *sql.Row) (*model.Category, error) {
	var c model.Category
	var parentID sql.NullString

	err := row.Scan(&c.ID, &c.Name, &c.Icon, &parentID, &c.SortOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.StorageErr("scan category", err)
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return &c, nil
}

func scanCategories(rows *sql.Rows) ([]model.Category, error) {
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		var parentID sql.NullString

		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &parentID, &c.SortOrder); err != nil {
			return nil, errs.StorageErr("scan category", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.String
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("scan categories", err)
	}
	return categories, nil
}

// placeholders returns "?, ?, ..." with n placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
