package storage

import (
	"database/sql"

	"github.com/nikbrunner/nav/internal/errs"
	"github.com/nikbrunner/nav/internal/model"
)

// Configuration record keys.
const (
	ConfigDefaultCategoryID = "default_category_id"
	ConfigSiteName          = "site_name"
	ConfigSiteLogo          = "site_logo"
	ConfigSiteDescription   = "site_description"
	ConfigPageTitle         = "page_title"
	ConfigPageDescription   = "page_description"
	ConfigPageIcon          = "page_icon"
)

// ConfigValue returns the value stored under key, or "" if absent.
func (t *Tx) ConfigValue(key string) (string, error) {
	var value string
	err := t.q.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errs.StorageErr("read config value", err)
	}
	return value, nil
}

// SetConfigValue stores value under key, replacing any previous value.
func (t *Tx) SetConfigValue(key, value string) error {
	_, err := t.q.Exec("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)", key, value)
	return errs.StorageErr("write config value", err)
}

// DefaultCategoryID returns the id of the default category seeded at
// initialization. It is never empty on an opened store.
func (t *Tx) DefaultCategoryID() (string, error) {
	return t.ConfigValue(ConfigDefaultCategoryID)
}

// SiteConfig reads the site configuration records as one struct.
func (t *Tx) SiteConfig() (model.SiteConfig, error) {
	var cfg model.SiteConfig
	fields := map[string]*string{
		ConfigSiteName:        &cfg.SiteName,
		ConfigSiteLogo:        &cfg.SiteLogo,
		ConfigSiteDescription: &cfg.SiteDescription,
		ConfigPageTitle:       &cfg.PageTitle,
		ConfigPageDescription: &cfg.PageDescription,
		ConfigPageIcon:        &cfg.PageIcon,
	}
	for key, dest := range fields {
		value, err := t.ConfigValue(key)
		if err != nil {
			return model.SiteConfig{}, err
		}
		*dest = value
	}
	return cfg, nil
}

// SaveSiteConfig writes the site configuration records.
func (t *Tx) SaveSiteConfig(cfg model.SiteConfig) error {
	fields := map[string]string{
		ConfigSiteName:        cfg.SiteName,
		ConfigSiteLogo:        cfg.SiteLogo,
		ConfigSiteDescription: cfg.SiteDescription,
		ConfigPageTitle:       cfg.PageTitle,
		ConfigPageDescription: cfg.PageDescription,
		ConfigPageIcon:        cfg.PageIcon,
	}
	for key, value := range fields {
		if err := t.SetConfigValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

// AdminProfile reads the singleton admin profile.
func (t *Tx) AdminProfile() (model.AdminProfile, error) {
	var p model.AdminProfile
	err := t.q.QueryRow(
		"SELECT username, password_hash, login_path FROM admin WHERE id = 1",
	).Scan(&p.Username, &p.PasswordHash, &p.LoginPath)
	if err != nil {
		return model.AdminProfile{}, errs.StorageErr("read admin profile", err)
	}
	return p, nil
}

// SaveAdminProfile overwrites the singleton admin profile. The schema pins
// the row to id 1, so a second profile cannot exist.
func (t *Tx) SaveAdminProfile(p model.AdminProfile) error {
	_, err := t.q.Exec(`
		INSERT OR REPLACE INTO admin (id, username, password_hash, login_path)
		VALUES (1, ?, ?, ?)
	`, p.Username, p.PasswordHash, p.LoginPath)
	return errs.StorageErr("write admin profile", err)
}
