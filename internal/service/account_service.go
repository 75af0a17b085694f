package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bucketlist/internal/models"
	"bucketlist/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for account flows.
var (
	// ErrAuthenticationFailed deliberately does not say which field was wrong.
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrIncorrectPassword    = errors.New("incorrect password")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidTheme         = errors.New("theme must be light or dark")
)

// AccountService handles account documents and owns session transitions.
type AccountService struct {
	accountRepo repository.Accounts
	session     *Session
	signingKey  []byte
	tokenTTL    time.Duration
}

func NewAccountService(repo repository.Accounts, session *Session, cfg AuthConfig) *AccountService {
	return &AccountService{
		accountRepo: repo,
		session:     session,
		signingKey:  []byte(cfg.SigningKey),
		tokenTTL:    cfg.TokenTTL,
	}
}

var _ Accounts = (*AccountService)(nil)

// Authenticate verifies credentials and, on success, sets the session to the
// account's public projection. Both "no such user" and "wrong password"
// collapse into ErrAuthenticationFailed.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) error {
	a, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrAuthenticationFailed
	}
	if err := verifyPassword(a.PasswordHash, password); err != nil {
		return ErrAuthenticationFailed
	}
	s.session.Set(a.Public())
	return nil
}

// Claims defines JWT claims carrying the authenticated username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken authenticates and returns a signed bearer token.
func (s *AccountService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	if err := s.Authenticate(ctx, username, password); err != nil {
		return "", err
	}
	return s.issueToken(username)
}

// ParseToken validates a bearer token and returns the username it carries.
func (s *AccountService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

// Register creates a new account with the default light theme and no avatar,
// then sets the session. A taken username fails without touching the
// existing account.
func (s *AccountService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username is empty")
	}
	existing, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateUsername
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	a := models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Theme:        models.ThemeLight,
	}
	if err := s.accountRepo.Create(ctx, a); err != nil {
		// Lost a registration race; the UNIQUE constraint caught it.
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateUsername
		}
		return err
	}
	s.session.Set(a.Public())
	return nil
}

// Logout clears the session unconditionally.
func (s *AccountService) Logout() {
	s.session.Clear()
}

// Rename re-verifies the password, then renames the account and re-points
// every owned list item (one transaction in the repository). The session
// mirrors the new username afterwards.
func (s *AccountService) Rename(ctx context.Context, oldUsername, newUsername, password string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return errors.New("new username is empty")
	}
	if _, err := s.verifyAccount(ctx, oldUsername, password); err != nil {
		return err
	}
	if err := s.accountRepo.Rename(ctx, oldUsername, newUsername); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateUsername
		}
		return err
	}
	s.session.Mutate(func(u *models.SessionUser) {
		if u.Username == oldUsername {
			u.Username = newUsername
		}
	})
	return nil
}

// ChangePassword re-verifies the current password before storing the new one.
func (s *AccountService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if _, err := s.verifyAccount(ctx, username, currentPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accountRepo.UpdatePassword(ctx, username, hash)
}

// Delete re-verifies the password, removes the account document and clears
// the session. Owned list items are not cascade-deleted; that matches the
// source and leaves orphans behind.
func (s *AccountService) Delete(ctx context.Context, username, password string) error {
	if _, err := s.verifyAccount(ctx, username, password); err != nil {
		return err
	}
	if err := s.accountRepo.Delete(ctx, username); err != nil {
		return err
	}
	s.session.Clear()
	return nil
}

// UpdateTheme persists the preference for the session account, then mirrors
// it into the session. No-op without a session.
func (s *AccountService) UpdateTheme(ctx context.Context, theme string) error {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return ErrInvalidTheme
	}
	u, ok := s.session.Current()
	if !ok {
		return nil
	}
	if err := s.accountRepo.UpdateTheme(ctx, u.Username, theme); err != nil {
		return err
	}
	s.session.Mutate(func(cur *models.SessionUser) { cur.Theme = theme })
	return nil
}

// UpdateAvatar persists the avatar URL and mirrors it. No-op without a session.
func (s *AccountService) UpdateAvatar(ctx context.Context, avatarURL string) error {
	u, ok := s.session.Current()
	if !ok {
		return nil
	}
	if err := s.accountRepo.UpdateAvatar(ctx, u.Username, avatarURL); err != nil {
		return err
	}
	s.session.Mutate(func(cur *models.SessionUser) { cur.AvatarURL = avatarURL })
	return nil
}

// RemoveAvatar clears the stored avatar. No-op without a session.
func (s *AccountService) RemoveAvatar(ctx context.Context) error {
	return s.UpdateAvatar(ctx, "")
}

// Current exposes the session projection to callers.
func (s *AccountService) Current() (models.SessionUser, bool) {
	return s.session.Current()
}

// verifyAccount loads the account and checks the password, returning
// ErrIncorrectPassword on any credential failure. Used by the re-verification
// steps (rename, password change, deletion).
func (s *AccountService) verifyAccount(ctx context.Context, username, password string) (*models.Account, error) {
	a, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrIncorrectPassword
	}
	if err := verifyPassword(a.PasswordHash, password); err != nil {
		return nil, ErrIncorrectPassword
	}
	return a, nil
}

func (s *AccountService) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: username,
	})
	return token.SignedString(s.signingKey)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
