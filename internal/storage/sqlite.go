// Package storage persists the link directory in a SQLite database and
// scopes every multi-step mutation inside one transaction.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
)

const currentSchemaVersion = 1

// Store wraps the SQLite database holding categories, links, menu links and
// the configuration records.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the database at the given path, runs
// migrations and seeds the default records.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.StorageErr("create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.StorageErr("open database", err)
	}

	// Set pragmas for durability and concurrent readers
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errs.StorageErr("set pragma", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seedDefaults(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside one transaction. The transaction commits only if fn
// returns nil; any error rolls back every write fn issued and is returned
// unchanged.
func (s *Store) WithTx(fn func(*Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errs.StorageErr("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errs.StorageErr("commit transaction", err)
	}
	return nil
}

// Reader returns record-level access backed by the bare connection, for
// reads that need no transaction scope.
func (s *Store) Reader() *Tx {
	return &Tx{q: s.db}
}

// migrate runs database migrations.
func (s *Store) migrate() error {
	// Check current schema version
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return errs.StorageErr("migrate schema", err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *Store) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY NOT NULL,
			name TEXT NOT NULL UNIQUE,
			icon TEXT NOT NULL DEFAULT '',
			parent_id TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id);

		CREATE TABLE IF NOT EXISTS links (
			id TEXT PRIMARY KEY NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			category_id TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '[]',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_links_category_id ON links(category_id);
		CREATE INDEX IF NOT EXISTS idx_links_url ON links(url);

		CREATE TABLE IF NOT EXISTS menu_links (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT 'left',
			sort_order INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS config (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS admin (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			login_path TEXT NOT NULL DEFAULT ''
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// seedDefaults ensures the records every install relies on: the default
// category (the guaranteed destination for links whose category disappears),
// the site configuration keys, and the singleton admin profile.
func (s *Store) seedDefaults() error {
	return s.WithTx(func(tx *Tx) error {
		id, err := tx.ConfigValue(ConfigDefaultCategoryID)
		if err != nil {
			return err
		}
		if id == "" {
			cat := model.NewCategory(model.NewCategoryParams{Name: "General", Icon: "⭐"})
			if err := tx.InsertCategory(cat); err != nil {
				return err
			}
			if err := tx.SetConfigValue(ConfigDefaultCategoryID, cat.ID); err != nil {
				return err
			}
		}

		site := model.DefaultSiteConfig()
		defaults := map[string]string{
			ConfigSiteName:        site.SiteName,
			ConfigSiteLogo:        site.SiteLogo,
			ConfigSiteDescription: site.SiteDescription,
			ConfigPageTitle:       site.PageTitle,
			ConfigPageDescription: site.PageDescription,
			ConfigPageIcon:        site.PageIcon,
		}
		for key, value := range defaults {
			if _, err := tx.q.Exec(
				"INSERT OR IGNORE INTO config (key, value) VALUES (?, ?)", key, value,
			); err != nil {
				return errs.StorageErr("seed config", err)
			}
		}

		admin := model.DefaultAdminProfile()
		if _, err := tx.q.Exec(`
			INSERT OR IGNORE INTO admin (id, username, password_hash, login_path)
			VALUES (1, ?, ?, ?)
		`, admin.Username, admin.PasswordHash, admin.LoginPath); err != nil {
			return errs.StorageErr("seed admin profile", err)
		}

		return nil
	})
}

// DefaultPath returns the default SQLite database path: ~/.config/nav/nav.db
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "nav", "nav.db"), nil
}
