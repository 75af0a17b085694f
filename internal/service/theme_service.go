package service

import (
	"context"

	"bucketlist/internal/models"
)

// ThemeService derives UI color tokens from the session's stored preference.
// It keeps no state of its own; every read recomputes from the session.
type ThemeService struct {
	session  *Session
	accounts Accounts
}

func NewThemeService(session *Session, accounts Accounts) *ThemeService {
	return &ThemeService{session: session, accounts: accounts}
}

var _ Themes = (*ThemeService)(nil)

// IsDark reports whether the session theme is dark. No session means light.
func (s *ThemeService) IsDark() bool {
	u, ok := s.session.Current()
	return ok && u.Theme == models.ThemeDark
}

// Tokens returns the color tokens for the session theme.
func (s *ThemeService) Tokens() models.ThemeTokens {
	u, _ := s.session.Current()
	return models.TokensForTheme(u.Theme)
}

// Toggle flips light/dark and writes through the account store. No-op when
// there is no session, like every preference mutation.
func (s *ThemeService) Toggle(ctx context.Context) error {
	u, ok := s.session.Current()
	if !ok {
		return nil
	}
	// Anything that isn't dark flips to dark, so a missing stored value
	// behaves like light.
	next := models.ThemeDark
	if u.Theme == models.ThemeDark {
		next = models.ThemeLight
	}
	return s.accounts.UpdateTheme(ctx, next)
}
