package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bucketlist/internal/models"
)

type AccountSQLite struct {
	db *sql.DB
}

func NewAccountSQLite(db *sql.DB) *AccountSQLite {
	return &AccountSQLite{db: db}
}

// Ensure implementation of Accounts interface at compile time.
var _ Accounts = (*AccountSQLite)(nil)

const (
	insertAccountSQL = `INSERT INTO accounts (id, username, password_hash, theme, avatar_url) VALUES (?, ?, ?, ?, ?)`

	selectAccountByUsernameSQL = `SELECT id, username, password_hash, theme, avatar_url FROM accounts WHERE username = ?`

	updateAccountPasswordSQL = `UPDATE accounts SET password_hash = ? WHERE username = ?`
	updateAccountThemeSQL    = `UPDATE accounts SET theme = ? WHERE username = ?`
	updateAccountAvatarSQL   = `UPDATE accounts SET avatar_url = ? WHERE username = ?`
	updateAccountUsernameSQL = `UPDATE accounts SET username = ? WHERE username = ?`
	updateListOwnerSQL       = `UPDATE list_items SET owner = ? WHERE owner = ?`
	deleteAccountSQL         = `DELETE FROM accounts WHERE username = ?`
)

// isUniqueViolation reports whether err is the SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// avatarValue maps the empty string to NULL so "no avatar" round-trips cleanly.
func avatarValue(url string) any {
	if url == "" {
		return nil
	}
	return url
}

// Create inserts a new account document.
func (r *AccountSQLite) Create(ctx context.Context, a models.Account) error {
	_, err := r.db.ExecContext(ctx, insertAccountSQL,
		a.ID, a.Username, a.PasswordHash, a.Theme, avatarValue(a.AvatarURL))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert account %q: %w", a.Username, ErrDuplicate)
		}
		return fmt.Errorf("insert account %q: %w", a.Username, err)
	}
	return nil
}

// GetByUsername fetches an account by username. Returns (nil, nil) if not found.
func (r *AccountSQLite) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var (
		a      models.Account
		avatar sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectAccountByUsernameSQL, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Theme, &avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select account %q: %w", username, err)
	}
	a.AvatarURL = avatar.String
	return &a, nil
}

func (r *AccountSQLite) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	return r.updateField(ctx, updateAccountPasswordSQL, "password", username, passwordHash)
}

func (r *AccountSQLite) UpdateTheme(ctx context.Context, username, theme string) error {
	return r.updateField(ctx, updateAccountThemeSQL, "theme", username, theme)
}

func (r *AccountSQLite) UpdateAvatar(ctx context.Context, username, avatarURL string) error {
	return r.updateField(ctx, updateAccountAvatarSQL, "avatar", username, avatarValue(avatarURL))
}

// updateField issues a single targeted field update keyed by username.
func (r *AccountSQLite) updateField(ctx context.Context, query, field, username string, value any) error {
	res, err := r.db.ExecContext(ctx, query, value, username)
	if err != nil {
		return fmt.Errorf("update %s for account %q: %w", field, username, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected updating %s for account %q: %w", field, username, err)
	}
	if affected == 0 {
		return fmt.Errorf("update %s for account %q: %w", field, username, ErrNotFound)
	}
	return nil
}

// Rename updates the account's username and re-points all of its list items
// in one transaction, so the cascade cannot be observed half-applied.
func (r *AccountSQLite) Rename(ctx context.Context, oldUsername, newUsername string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rename transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, updateAccountUsernameSQL, newUsername, oldUsername)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rename account %q: %w", oldUsername, ErrDuplicate)
		}
		return fmt.Errorf("rename account %q: %w", oldUsername, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected renaming account %q: %w", oldUsername, err)
	}
	if affected == 0 {
		return fmt.Errorf("rename account %q: %w", oldUsername, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, updateListOwnerSQL, newUsername, oldUsername); err != nil {
		return fmt.Errorf("re-point list items of %q: %w", oldUsername, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rename of %q: %w", oldUsername, err)
	}
	return nil
}

// Delete removes the account document only. List items owned by the deleted
// username are intentionally left behind, matching the source behavior.
func (r *AccountSQLite) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, deleteAccountSQL, username)
	if err != nil {
		return fmt.Errorf("delete account %q: %w", username, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected deleting account %q: %w", username, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete account %q: %w", username, ErrNotFound)
	}
	return nil
}
