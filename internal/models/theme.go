package models

// ThemeTokens are the UI color tokens derived from a theme preference.
type ThemeTokens struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Card       string `json:"card"`
}

var (
	lightTokens = ThemeTokens{Background: "#f5f5f5", Text: "#000", Card: "#fff"}
	darkTokens  = ThemeTokens{Background: "#121212", Text: "#fff", Card: "#1e1e1e"}
)

// TokensForTheme maps a stored theme preference to its color tokens.
// Unknown values fall back to the light palette, matching the default theme.
func TokensForTheme(theme string) ThemeTokens {
	if theme == ThemeDark {
		return darkTokens
	}
	return lightTokens
}
