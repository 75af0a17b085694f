package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bucketlist/internal/models"
	"bucketlist/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// mockAccountRepo is a lightweight in-test mock for repository.Accounts.
type mockAccountRepo struct {
	CreateFn         func(a models.Account) error
	GetByUsernameFn  func(username string) (*models.Account, error)
	UpdatePasswordFn func(username, hash string) error
	UpdateThemeFn    func(username, theme string) error
	UpdateAvatarFn   func(username, avatarURL string) error
	RenameFn         func(oldUsername, newUsername string) error
	DeleteFn         func(username string) error

	createCalls []models.Account
	renameCalls [][2]string
	themeCalls  [][2]string
	avatarCalls [][2]string
	pwCalls     [][2]string
	delCalls    []string
}

func (m *mockAccountRepo) Create(_ context.Context, a models.Account) error {
	m.createCalls = append(m.createCalls, a)
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(a)
}

func (m *mockAccountRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	if m.GetByUsernameFn == nil {
		return nil, nil
	}
	return m.GetByUsernameFn(username)
}

func (m *mockAccountRepo) UpdatePassword(_ context.Context, username, hash string) error {
	m.pwCalls = append(m.pwCalls, [2]string{username, hash})
	if m.UpdatePasswordFn == nil {
		return nil
	}
	return m.UpdatePasswordFn(username, hash)
}

func (m *mockAccountRepo) UpdateTheme(_ context.Context, username, theme string) error {
	m.themeCalls = append(m.themeCalls, [2]string{username, theme})
	if m.UpdateThemeFn == nil {
		return nil
	}
	return m.UpdateThemeFn(username, theme)
}

func (m *mockAccountRepo) UpdateAvatar(_ context.Context, username, avatarURL string) error {
	m.avatarCalls = append(m.avatarCalls, [2]string{username, avatarURL})
	if m.UpdateAvatarFn == nil {
		return nil
	}
	return m.UpdateAvatarFn(username, avatarURL)
}

func (m *mockAccountRepo) Rename(_ context.Context, oldUsername, newUsername string) error {
	m.renameCalls = append(m.renameCalls, [2]string{oldUsername, newUsername})
	if m.RenameFn == nil {
		return nil
	}
	return m.RenameFn(oldUsername, newUsername)
}

func (m *mockAccountRepo) Delete(_ context.Context, username string) error {
	m.delCalls = append(m.delCalls, username)
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(username)
}

func newTestAccountService(repo *mockAccountRepo) (*AccountService, *Session) {
	session := NewSession()
	svc := NewAccountService(repo, session, AuthConfig{SigningKey: "test-key", TokenTTL: time.Hour})
	return svc, session
}

// storedAccount builds a persisted account with a real bcrypt hash.
func storedAccount(t *testing.T, username, password string) *models.Account {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	return &models.Account{
		ID: "id-" + username, Username: username, PasswordHash: hash, Theme: models.ThemeLight,
	}
}

// --- Register tests ---

func TestAccountService_Register_SuccessSetsSessionAndDefaults(t *testing.T) {
	repo := &mockAccountRepo{
		GetByUsernameFn: func(string) (*models.Account, error) { return nil, nil },
	}
	svc, session := newTestAccountService(repo)

	if err := svc.Register(context.Background(), "alice", "pw1"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if len(repo.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(repo.createCalls))
	}
	created := repo.createCalls[0]
	if created.Theme != models.ThemeLight {
		t.Fatalf("expected default light theme, got %q", created.Theme)
	}
	if created.AvatarURL != "" {
		t.Fatalf("expected no avatar, got %q", created.AvatarURL)
	}
	if created.PasswordHash == "pw1" {
		t.Fatalf("password stored unhashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	u, ok := session.Current()
	if !ok || u.Username != "alice" || u.Theme != models.ThemeLight {
		t.Fatalf("session not set after registration: %+v ok=%v", u, ok)
	}
}

func TestAccountService_Register_DuplicateNeverOverwrites(t *testing.T) {
	existing := storedAccount(t, "alice", "pw1")
	repo := &mockAccountRepo{
		GetByUsernameFn: func(username string) (*models.Account, error) { return existing, nil },
	}
	svc, session := newTestAccountService(repo)

	err := svc.Register(context.Background(), "alice", "pw2")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if len(repo.createCalls) != 0 {
		t.Fatalf("Create must not be called on duplicate, got %d calls", len(repo.createCalls))
	}
	if _, ok := session.Current(); ok {
		t.Fatalf("session must stay empty on failed registration")
	}
}

func TestAccountService_Register_LostRaceMapsConstraintError(t *testing.T) {
	repo := &mockAccountRepo{
		GetByUsernameFn: func(string) (*models.Account, error) { return nil, nil },
		CreateFn: func(models.Account) error {
			return repository.ErrDuplicate
		},
	}
	svc, _ := newTestAccountService(repo)

	err := svc.Register(context.Background(), "alice", "pw1")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

// --- Authenticate tests ---

func TestAccountService_Authenticate(t *testing.T) {
	account := storedAccount(t, "alice", "pw1")
	account.Theme = models.ThemeDark
	account.AvatarURL = "https://example.com/a.png"

	tests := []struct {
		name     string
		username string
		password string
		stored   *models.Account
		wantErr  error
	}{
		{"success", "alice", "pw1", account, nil},
		{"wrong password", "alice", "wrong", account, ErrAuthenticationFailed},
		{"unknown user", "ghost", "pw1", nil, ErrAuthenticationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAccountRepo{
				GetByUsernameFn: func(string) (*models.Account, error) { return tt.stored, nil },
			}
			svc, session := newTestAccountService(repo)

			err := svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if _, ok := session.Current(); ok {
					t.Fatalf("session must stay empty on failed authentication")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			u, ok := session.Current()
			if !ok {
				t.Fatalf("session empty after successful authentication")
			}
			if u.Username != "alice" || u.Theme != models.ThemeDark || u.AvatarURL != account.AvatarURL {
				t.Fatalf("unexpected session projection: %+v", u)
			}
		})
	}
}

func TestAccountService_Authenticate_RepoErrorPropagates(t *testing.T) {
	repo := &mockAccountRepo{
		GetByUsernameFn: func(string) (*models.Account, error) { return nil, errors.New("query failed") },
	}
	svc, _ := newTestAccountService(repo)

	err := svc.Authenticate(context.Background(), "alice", "pw1")
	if err == nil || errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected raw repo error, got %v", err)
	}
}

// --- Token tests ---

func TestAccountService_TokenRoundTrip(t *testing.T) {
	account := storedAccount(t, "alice", "pw1")
	repo := &mockAccountRepo{
		GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
	}
	svc, _ := newTestAccountService(repo)

	token, err := svc.GenerateToken(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	username, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected username alice, got %q", username)
	}
}

func TestAccountService_ParseToken_Malformed(t *testing.T) {
	svc, _ := newTestAccountService(&mockAccountRepo{})
	if _, err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestAccountService_ParseToken_WrongKey(t *testing.T) {
	svc, _ := newTestAccountService(&mockAccountRepo{})

	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: "alice",
	})
	badToken, err := tk.SignedString([]byte("different-key"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseToken(badToken); err == nil {
		t.Fatalf("expected signature verification error")
	}
}

func TestAccountService_GenerateToken_BadCredentials(t *testing.T) {
	account := storedAccount(t, "alice", "pw1")
	repo := &mockAccountRepo{
		GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
	}
	svc, _ := newTestAccountService(repo)

	if _, err := svc.GenerateToken(context.Background(), "alice", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

// --- Logout ---

func TestAccountService_Logout_ClearsSession(t *testing.T) {
	svc, session := newTestAccountService(&mockAccountRepo{})
	session.Set(models.SessionUser{Username: "alice", Theme: models.ThemeLight})

	svc.Logout()

	if _, ok := session.Current(); ok {
		t.Fatalf("session not cleared by logout")
	}
}

// --- Rename ---

func TestAccountService_Rename(t *testing.T) {
	account := storedAccount(t, "alice", "pw1")

	t.Run("wrong password blocks the cascade", func(t *testing.T) {
		repo := &mockAccountRepo{
			GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
		}
		svc, _ := newTestAccountService(repo)

		err := svc.Rename(context.Background(), "alice", "alice2", "wrong")
		if !errors.Is(err, ErrIncorrectPassword) {
			t.Fatalf("expected ErrIncorrectPassword, got %v", err)
		}
		if len(repo.renameCalls) != 0 {
			t.Fatalf("Rename must not reach the repository on bad password")
		}
	})

	t.Run("success mirrors the session username", func(t *testing.T) {
		repo := &mockAccountRepo{
			GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
		}
		svc, session := newTestAccountService(repo)
		session.Set(models.SessionUser{Username: "alice", Theme: models.ThemeLight})

		if err := svc.Rename(context.Background(), "alice", "alice2", "pw1"); err != nil {
			t.Fatalf("Rename returned error: %v", err)
		}
		if len(repo.renameCalls) != 1 || repo.renameCalls[0] != [2]string{"alice", "alice2"} {
			t.Fatalf("unexpected rename calls: %v", repo.renameCalls)
		}
		u, ok := session.Current()
		if !ok || u.Username != "alice2" {
			t.Fatalf("session username not mirrored: %+v", u)
		}
	})

	t.Run("taken username surfaces as duplicate", func(t *testing.T) {
		repo := &mockAccountRepo{
			GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
			RenameFn: func(string, string) error {
				return repository.ErrDuplicate
			},
		}
		svc, _ := newTestAccountService(repo)

		err := svc.Rename(context.Background(), "alice", "bob", "pw1")
		if !errors.Is(err, ErrDuplicateUsername) {
			t.Fatalf("expected ErrDuplicateUsername, got %v", err)
		}
	})
}

// --- ChangePassword ---

func TestAccountService_ChangePassword(t *testing.T) {
	account := storedAccount(t, "alice", "pw1")

	t.Run("incorrect current password", func(t *testing.T) {
		repo := &mockAccountRepo{
			GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
		}
		svc, _ := newTestAccountService(repo)

		err := svc.ChangePassword(context.Background(), "alice", "wrong", "pw2")
		if !errors.Is(err, ErrIncorrectPassword) {
			t.Fatalf("expected ErrIncorrectPassword, got %v", err)
		}
		if len(repo.pwCalls) != 0 {
			t.Fatalf("UpdatePassword must not be called on bad verification")
		}
	})

	t.Run("success stores a fresh hash", func(t *testing.T) {
		repo := &mockAccountRepo{
			GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
		}
		svc, _ := newTestAccountService(repo)

		if err := svc.ChangePassword(context.Background(), "alice", "pw1", "pw2"); err != nil {
			t.Fatalf("ChangePassword returned error: %v", err)
		}
		if len(repo.pwCalls) != 1 {
			t.Fatalf("expected 1 UpdatePassword call, got %d", len(repo.pwCalls))
		}
		newHash := repo.pwCalls[0][1]
		if err := bcrypt.CompareHashAndPassword([]byte(newHash), []byte("pw2")); err != nil {
			t.Fatalf("new hash does not verify: %v", err)
		}
	})
}

// --- Delete ---

func TestAccountService_Delete(t *testing.T) {
	account := storedAccount(t, "alice", "pw1")

	t.Run("re-verification failure", func(t *testing.T) {
		repo := &mockAccountRepo{
			GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
		}
		svc, session := newTestAccountService(repo)
		session.Set(account.Public())

		err := svc.Delete(context.Background(), "alice", "wrong")
		if !errors.Is(err, ErrIncorrectPassword) {
			t.Fatalf("expected ErrIncorrectPassword, got %v", err)
		}
		if _, ok := session.Current(); !ok {
			t.Fatalf("session must survive a failed deletion")
		}
	})

	t.Run("success deletes and clears session", func(t *testing.T) {
		repo := &mockAccountRepo{
			GetByUsernameFn: func(string) (*models.Account, error) { return account, nil },
		}
		svc, session := newTestAccountService(repo)
		session.Set(account.Public())

		if err := svc.Delete(context.Background(), "alice", "pw1"); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if len(repo.delCalls) != 1 || repo.delCalls[0] != "alice" {
			t.Fatalf("unexpected delete calls: %v", repo.delCalls)
		}
		if _, ok := session.Current(); ok {
			t.Fatalf("session not cleared after deletion")
		}
	})
}

// --- Preference mutations ---

func TestAccountService_UpdateTheme(t *testing.T) {
	t.Run("no-op without session", func(t *testing.T) {
		repo := &mockAccountRepo{}
		svc, _ := newTestAccountService(repo)

		if err := svc.UpdateTheme(context.Background(), models.ThemeDark); err != nil {
			t.Fatalf("expected silent no-op, got %v", err)
		}
		if len(repo.themeCalls) != 0 {
			t.Fatalf("repo must not be touched without a session")
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		svc, session := newTestAccountService(&mockAccountRepo{})
		session.Set(models.SessionUser{Username: "alice", Theme: models.ThemeLight})

		if err := svc.UpdateTheme(context.Background(), "solarized"); !errors.Is(err, ErrInvalidTheme) {
			t.Fatalf("expected ErrInvalidTheme, got %v", err)
		}
	})

	t.Run("writes remote then mirrors session", func(t *testing.T) {
		repo := &mockAccountRepo{}
		svc, session := newTestAccountService(repo)
		session.Set(models.SessionUser{Username: "alice", Theme: models.ThemeLight})

		if err := svc.UpdateTheme(context.Background(), models.ThemeDark); err != nil {
			t.Fatalf("UpdateTheme returned error: %v", err)
		}
		if len(repo.themeCalls) != 1 || repo.themeCalls[0] != [2]string{"alice", "dark"} {
			t.Fatalf("unexpected theme calls: %v", repo.themeCalls)
		}
		u, _ := session.Current()
		if u.Theme != models.ThemeDark {
			t.Fatalf("session theme not mirrored: %+v", u)
		}
	})

	t.Run("remote failure leaves session untouched", func(t *testing.T) {
		repo := &mockAccountRepo{
			UpdateThemeFn: func(string, string) error { return errors.New("network down") },
		}
		svc, session := newTestAccountService(repo)
		session.Set(models.SessionUser{Username: "alice", Theme: models.ThemeLight})

		if err := svc.UpdateTheme(context.Background(), models.ThemeDark); err == nil {
			t.Fatalf("expected error, got nil")
		}
		u, _ := session.Current()
		if u.Theme != models.ThemeLight {
			t.Fatalf("session mutated despite remote failure: %+v", u)
		}
	})
}

func TestAccountService_Avatar(t *testing.T) {
	t.Run("update mirrors into session", func(t *testing.T) {
		repo := &mockAccountRepo{}
		svc, session := newTestAccountService(repo)
		session.Set(models.SessionUser{Username: "alice", Theme: models.ThemeLight})

		url := "https://example.com/a.png"
		if err := svc.UpdateAvatar(context.Background(), url); err != nil {
			t.Fatalf("UpdateAvatar returned error: %v", err)
		}
		u, _ := session.Current()
		if u.AvatarURL != url {
			t.Fatalf("avatar not mirrored: %+v", u)
		}
	})

	t.Run("remove clears it", func(t *testing.T) {
		repo := &mockAccountRepo{}
		svc, session := newTestAccountService(repo)
		session.Set(models.SessionUser{Username: "alice", Theme: models.ThemeLight, AvatarURL: "x"})

		if err := svc.RemoveAvatar(context.Background()); err != nil {
			t.Fatalf("RemoveAvatar returned error: %v", err)
		}
		if len(repo.avatarCalls) != 1 || repo.avatarCalls[0] != [2]string{"alice", ""} {
			t.Fatalf("unexpected avatar calls: %v", repo.avatarCalls)
		}
		u, _ := session.Current()
		if u.AvatarURL != "" {
			t.Fatalf("avatar not cleared: %+v", u)
		}
	})

	t.Run("no-op without session", func(t *testing.T) {
		repo := &mockAccountRepo{}
		svc, _ := newTestAccountService(repo)

		if err := svc.UpdateAvatar(context.Background(), "x"); err != nil {
			t.Fatalf("expected silent no-op, got %v", err)
		}
		if len(repo.avatarCalls) != 0 {
			t.Fatalf("repo must not be touched without a session")
		}
	})
}
