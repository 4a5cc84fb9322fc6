package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
)

const linkColumns = "id, url, title, description, icon, category_id, tags, sort_order, created_at"

// InsertLink persists a new link.
func (t *Tx) InsertLink(l model.Link) error {
	tagsJSON, _ := json.Marshal(l.Tags)
	if l.Tags == nil {
		tagsJSON = []byte("[]")
	}
	_, err := t.q.Exec(`
		INSERT INTO links (id, url, title, description, icon, category_id, tags, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.URL, l.Title, l.Description, l.Icon, l.CategoryID,
		string(tagsJSON), l.SortOrder, l.CreatedAt.Format(time.RFC3339))
	return errs.StorageErr("insert link", err)
}

// UpdateLink overwrites all mutable fields of a link.
func (t *Tx) UpdateLink(l model.Link) error {
	tagsJSON, _ := json.Marshal(l.Tags)
	if l.Tags == nil {
		tagsJSON = []byte("[]")
	}
	_, err := t.q.Exec(`
		UPDATE links SET url = ?, title = ?, description = ?, icon = ?,
			category_id = ?, tags = ?, sort_order = ?
		WHERE id = ?
	`, l.URL, l.Title, l.Description, l.Icon, l.CategoryID,
		string(tagsJSON), l.SortOrder, l.ID)
	return errs.StorageErr("update link", err)
}

// UpdateLinkMeta overwrites only the display metadata of a link, leaving its
// placement (category and sort order) untouched.
func (t *Tx) UpdateLinkMeta(id, title, description, icon string) error {
	_, err := t.q.Exec(`
		UPDATE links SET title = ?, description = ?, icon = ? WHERE id = ?
	`, title, description, icon, id)
	return errs.StorageErr("update link metadata", err)
}

// SetLinkPlacement moves a link to a category at a position.
func (t *Tx) SetLinkPlacement(id, categoryID string, sortOrder int) error {
	_, err := t.q.Exec(
		"UPDATE links SET category_id = ?, sort_order = ? WHERE id = ?",
		categoryID, sortOrder, id,
	)
	return errs.StorageErr("set link placement", err)
}

// SetLinkSortOrder assigns a link's position within its category.
func (t *Tx) SetLinkSortOrder(id string, order int) error {
	_, err := t.q.Exec("UPDATE links SET sort_order = ? WHERE id = ?", order, id)
	return errs.StorageErr("set link sort order", err)
}

// DeleteLink removes a link by id.
func (t *Tx) DeleteLink(id string) error {
	_, err := t.q.Exec("DELETE FROM links WHERE id = ?", id)
	return errs.StorageErr("delete link", err)
}

// DeleteLinksInCategories removes every link placed in the given categories
// and returns how many were deleted.
func (t *Tx) DeleteLinksInCategories(categoryIDs []string) (int, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	result, err := t.q.Exec(
		"DELETE FROM links WHERE category_id IN ("+placeholders(len(categoryIDs))+")",
		idArgs(categoryIDs)...,
	)
	if err != nil {
		return 0, errs.StorageErr("delete links in categories", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, errs.StorageErr("count deleted links", err)
	}
	return int(count), nil
}

// LinkByID returns the link with the given id, or nil if absent.
func (t *Tx) LinkByID(id string) (*model.Link, error) {
	row := t.q.QueryRow("SELECT "+linkColumns+" FROM links WHERE id = ?", id)
	return scanLinkRow(row)
}

// LinkByURL returns the oldest link with the given exact URL, or nil if
// absent. URLs are not unique in normal CRUD; the import path uses this
// lookup to deduplicate.
func (t *Tx) LinkByURL(url string) (*model.Link, error) {
	row := t.q.QueryRow(
		"SELECT "+linkColumns+" FROM links WHERE url = ? ORDER BY created_at, id LIMIT 1",
		url,
	)
	return scanLinkRow(row)
}

// LinksIn returns the sibling group of links in one category, ordered by
// sort_order.
func (t *Tx) LinksIn(categoryID string) ([]model.Link, error) {
	rows, err := t.q.Query(
		"SELECT "+linkColumns+" FROM links WHERE category_id = ? ORDER BY sort_order, id",
		categoryID,
	)
	if err != nil {
		return nil, errs.StorageErr("query links in category", err)
	}
	return scanLinks(rows)
}

// AllLinks returns every link grouped by category, ordered by sort_order.
func (t *Tx) AllLinks() ([]model.Link, error) {
	rows, err := t.q.Query("SELECT " + linkColumns + " FROM links ORDER BY category_id, sort_order, id")
	if err != nil {
		return nil, errs.StorageErr("query links", err)
	}
	return scanLinks(rows)
}

// CountLinks returns the total number of links.
func (t *Tx) CountLinks() (int, error) {
	var count int
	if err := t.q.QueryRow("SELECT COUNT(*) FROM links").Scan(&count); err != nil {
		return 0, errs.StorageErr("count links", err)
	}
	return count, nil
}

func scanLinkRow(row *sql.Row) (*model.Link, error) {
	var l model.Link
	var tagsJSON, createdAt string

	err := row.Scan(&l.ID, &l.URL, &l.Title, &l.Description, &l.Icon,
		&l.CategoryID, &tagsJSON, &l.SortOrder, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.StorageErr("scan link", err)
	}
	decodeLinkFields(&l, tagsJSON, createdAt)
	return &l, nil
}

func scanLinks(rows *sql.Rows) ([]model.Link, error) {
	defer rows.Close()

	links := []model.Link{}
	for rows.Next() {
		var l model.Link
		var tagsJSON, createdAt string

		if err := rows.Scan(&l.ID, &l.URL, &l.Title, &l.Description, &l.Icon,
			&l.CategoryID, &tagsJSON, &l.SortOrder, &createdAt); err != nil {
			return nil, errs.StorageErr("scan link", err)
		}
		decodeLinkFields(&l, tagsJSON, createdAt)
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("scan links", err)
	}
	return links, nil
}

func decodeLinkFields(l *model.Link, tagsJSON, createdAt string) {
	if err := json.Unmarshal([]byte(tagsJSON), &l.Tags); err != nil {
		l.Tags = []string{}
	}
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
}
