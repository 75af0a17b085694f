package models

// Theme preference values stored on an account.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Account is the persisted user record, keyed by unique username.
type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never exposed
	Theme        string `json:"theme"`            // light | dark
	AvatarURL    string `json:"avatar,omitempty"` // empty when no avatar is set
}

// SessionUser is the public projection of the authenticated account held in
// the session. It never carries credentials.
type SessionUser struct {
	Username  string `json:"username"`
	Theme     string `json:"theme"`
	AvatarURL string `json:"avatar,omitempty"`
}

// Public returns the session projection of an account.
func (a Account) Public() SessionUser {
	return SessionUser{
		Username:  a.Username,
		Theme:     a.Theme,
		AvatarURL: a.AvatarURL,
	}
}
