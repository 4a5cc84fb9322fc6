package model

// SiteConfig holds the site-wide display configuration, persisted as
// key/value records in the store.
type SiteConfig struct {
	SiteName        string `json:"siteName"`
	SiteLogo        string `json:"siteLogo"`
	SiteDescription string `json:"siteDescription"`
	PageTitle       string `json:"pageTitle"`
	PageDescription string `json:"pageDescription"`
	PageIcon        string `json:"pageIcon"`
}

// DefaultSiteConfig returns the configuration seeded into a fresh store.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		SiteName:  "nav",
		PageTitle: "nav - personal link directory",
	}
}
