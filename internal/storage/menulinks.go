package storage

import (
	"database/sql"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
)

const menuLinkColumns = "id, title, url, icon, position, sort_order"

// InsertMenuLink persists a new menu link.
func (t *Tx) InsertMenuLink(m model.MenuLink) error {
	_, err := t.q.Exec(`
		INSERT INTO menu_links (id, title, url, icon, position, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.Title, m.URL, m.Icon, m.Position, m.SortOrder)
	return errs.StorageErr("insert menu link", err)
}

// UpdateMenuLink overwrites all mutable fields of a menu link.
func (t *Tx) UpdateMenuLink(m model.MenuLink) error {
	_, err := t.q.Exec(`
		UPDATE menu_links SET title = ?, url = ?, icon = ?, position = ?, sort_order = ?
		WHERE id = ?
	`, m.Title, m.URL, m.Icon, m.Position, m.SortOrder, m.ID)
	return errs.StorageErr("update menu link", err)
}

// DeleteMenuLink removes a menu link by id.
func (t *Tx) DeleteMenuLink(id string) error {
	_, err := t.q.Exec("DELETE FROM menu_links WHERE id = ?", id)
	return errs.StorageErr("delete menu link", err)
}

// MenuLinkByTitleURL returns the menu link matching the exact (title, url)
// pair, or nil if absent. The import path deduplicates on this pair.
func (t *Tx) MenuLinkByTitleURL(title, url string) (*model.MenuLink, error) {
	row := t.q.QueryRow(
		"SELECT "+menuLinkColumns+" FROM menu_links WHERE title = ? AND url = ? LIMIT 1",
		title, url,
	)

	var m model.MenuLink
	err := row.Scan(&m.ID, &m.Title, &m.URL, &m.Icon, &m.Position, &m.SortOrder)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.StorageErr("scan menu link", err)
	}
	return &m, nil
}

// MenuLinks returns every menu link ordered by sort_order.
func (t *Tx) MenuLinks() ([]model.MenuLink, error) {
	rows, err := t.q.Query("SELECT " + menuLinkColumns + " FROM menu_links ORDER BY sort_order, id")
	if err != nil {
		return nil, errs.StorageErr("query menu links", err)
	}
	defer rows.Close()

	menuLinks := []model.MenuLink{}
	for rows.Next() {
		var m model.MenuLink
		if err := rows.Scan(&m.ID, &m.Title, &m.URL, &m.Icon, &m.Position, &m.SortOrder); err != nil {
			return nil, errs.StorageErr("scan menu link", err)
		}
		menuLinks = append(menuLinks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.StorageErr("scan menu links", err)
	}
	return menuLinks, nil
}
