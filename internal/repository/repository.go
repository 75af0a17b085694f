package repository

import (
	"context"
	"database/sql"
	"errors"

	"bucketlist/internal/models"
	"bucketlist/internal/repository/db"
)

// Storage-level sentinel errors shared by all repositories.
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

type Accounts interface {
	Create(ctx context.Context, a models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	UpdateTheme(ctx context.Context, username, theme string) error
	// UpdateAvatar stores avatarURL for the account; an empty string clears it.
	UpdateAvatar(ctx context.Context, username, avatarURL string) error
	// Rename changes the account's username and re-points every owned list
	// item to the new name in a single transaction.
	Rename(ctx context.Context, oldUsername, newUsername string) error
	Delete(ctx context.Context, username string) error
}

type Lists interface {
	// ListByOwner returns the owner's items in insertion order. A non-nil
	// done filters by completion state.
	ListByOwner(ctx context.Context, owner string, done *bool) ([]models.ListItem, error)
	Create(ctx context.Context, item models.ListItem) error
	SetDone(ctx context.Context, id string, done bool) error
	Update(ctx context.Context, id string, upd models.ListItemUpdate) error
	Delete(ctx context.Context, id string) error
}

type Repository struct {
	Accounts Accounts
	Lists    Lists
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Accounts: NewAccountSQLite(conn),
		Lists:    NewListSQLite(conn),
	}
}

// InitDB opens the SQLite file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
