package model

// AdminProfile is the single administrative identity of the directory.
// The system is single-owner: exactly one profile exists, enforced by the
// storage schema (a singleton row), never by runtime cleanup.
type AdminProfile struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	LoginPath    string `json:"loginPath"`
}

// DefaultAdminProfile returns the profile seeded into a fresh store.
// Credential handling (hashing, session issuance) lives outside this core.
func DefaultAdminProfile() AdminProfile {
	return AdminProfile{
		Username:  "admin",
		LoginPath: "admin",
	}
}
