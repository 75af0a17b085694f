package service

import (
	"context"
	"time"

	"bucketlist/internal/models"
	"bucketlist/internal/repository"
)

// Accounts manages account documents and the single-slot session.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) error
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
	Register(ctx context.Context, username, password string) error
	Logout()
	Rename(ctx context.Context, oldUsername, newUsername, password string) error
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
	Delete(ctx context.Context, username, password string) error
	UpdateTheme(ctx context.Context, theme string) error
	UpdateAvatar(ctx context.Context, avatarURL string) error
	RemoveAvatar(ctx context.Context) error
	Current() (models.SessionUser, bool)
}

// Lists manages per-user list items and their live snapshot streams.
type Lists interface {
	ListItems(ctx context.Context, owner string, done *bool) ([]models.ListItem, error)
	Subscribe(ctx context.Context, owner string) *ListSubscription
	// SubscribeSession follows the session: whenever the authenticated user
	// changes, the previous scope is torn down and a fresh one established.
	SubscribeSession(ctx context.Context) *ListSubscription
	Create(ctx context.Context, title string) (models.ListItem, error)
	SetDone(ctx context.Context, id string, done bool) error
	Update(ctx context.Context, id string, upd models.ListItemUpdate) error
	Remove(ctx context.Context, id string) error
}

// Themes exposes derived UI color tokens for the current session.
type Themes interface {
	Tokens() models.ThemeTokens
	IsDark() bool
	Toggle(ctx context.Context) error
}

// AuthConfig carries token issuing settings loaded from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

const defaultTokenTTL = time.Hour

// Root Service aggregates all sub-services.
type Service struct {
	Accounts
	Lists
	Themes
}

// NewService wires the repository layer into concrete services. All three
// sub-services share one Session value; the list service scopes its live
// queries to it and the theme service derives tokens from it.
func NewService(repos *repository.Repository, cfg AuthConfig) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	session := NewSession()
	accounts := NewAccountService(repos.Accounts, session, cfg)
	return &Service{
		Accounts: accounts,
		Lists:    NewListService(repos.Lists, session),
		Themes:   NewThemeService(session, accounts),
	}
}
