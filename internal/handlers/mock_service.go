package handlers

import (
	"context"
	"net/http"
	"sync"

	"bucketlist/internal/models"
	"bucketlist/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAccounts struct {
	authErr       error
	genTokenToken string
	genTokenErr   error
	parseUsername string
	parseErr      error
	registerErr   error
	renameErr     error
	changePwErr   error
	deleteErr     error
	themeErr      error
	avatarErr     error
	current       models.SessionUser
	hasSession    bool

	lastAuthUsername     string
	lastAuthPassword     string
	lastGenUsername      string
	lastGenPassword      string
	lastParseToken       string
	lastRegisterUsername string
	lastRegisterPassword string
	lastRename           [3]string
	lastChangePassword   [3]string
	lastDelete           [2]string
	lastTheme            string
	lastAvatar           string
	logoutCalled         int
	removeAvatarCalled   int
}

func (m *mockAccounts) Authenticate(_ context.Context, username, password string) error {
	m.lastAuthUsername = username
	m.lastAuthPassword = password
	return m.authErr
}

func (m *mockAccounts) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAccounts) ParseToken(accessToken string) (string, error) {
	m.lastParseToken = accessToken
	return m.parseUsername, m.parseErr
}

func (m *mockAccounts) Register(_ context.Context, username, password string) error {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerErr
}

func (m *mockAccounts) Logout() {
	m.logoutCalled++
}

func (m *mockAccounts) Rename(_ context.Context, oldUsername, newUsername, password string) error {
	m.lastRename = [3]string{oldUsername, newUsername, password}
	return m.renameErr
}

func (m *mockAccounts) ChangePassword(_ context.Context, username, currentPassword, newPassword string) error {
	m.lastChangePassword = [3]string{username, currentPassword, newPassword}
	return m.changePwErr
}

func (m *mockAccounts) Delete(_ context.Context, username, password string) error {
	m.lastDelete = [2]string{username, password}
	return m.deleteErr
}

func (m *mockAccounts) UpdateTheme(_ context.Context, theme string) error {
	m.lastTheme = theme
	return m.themeErr
}

func (m *mockAccounts) UpdateAvatar(_ context.Context, avatarURL string) error {
	m.lastAvatar = avatarURL
	return m.avatarErr
}

func (m *mockAccounts) RemoveAvatar(_ context.Context) error {
	m.removeAvatarCalled++
	return m.avatarErr
}

func (m *mockAccounts) Current() (models.SessionUser, bool) {
	return m.current, m.hasSession
}

type mockLists struct {
	items      []models.ListItem
	listErr    error
	createItem models.ListItem
	createErr  error
	setDoneErr error
	updateErr  error
	removeErr  error

	// snapshots are preloaded onto every subscription channel in order.
	snapshots [][]models.ListItem

	mu      sync.Mutex
	lastSub *service.ListSubscription

	lastOwner   string
	lastDone    *bool
	lastTitle   string
	lastDoneSet [2]interface{}
	lastUpdate  models.ListItemUpdate
	lastUpdated string
	lastRemoved string
}

func (m *mockLists) ListItems(_ context.Context, owner string, done *bool) ([]models.ListItem, error) {
	m.lastOwner = owner
	m.lastDone = done
	return m.items, m.listErr
}

func (m *mockLists) subscription() *service.ListSubscription {
	ch := make(chan []models.ListItem, len(m.snapshots)+1)
	for _, snap := range m.snapshots {
		ch <- snap
	}
	sub := service.NewListSubscription(ch, func() { close(ch) })
	m.mu.Lock()
	m.lastSub = sub
	m.mu.Unlock()
	return sub
}

func (m *mockLists) subscribed() *service.ListSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSub
}

func (m *mockLists) Subscribe(_ context.Context, owner string) *service.ListSubscription {
	m.lastOwner = owner
	return m.subscription()
}

func (m *mockLists) SubscribeSession(_ context.Context) *service.ListSubscription {
	return m.subscription()
}

func (m *mockLists) Create(_ context.Context, title string) (models.ListItem, error) {
	m.lastTitle = title
	return m.createItem, m.createErr
}

func (m *mockLists) SetDone(_ context.Context, id string, done bool) error {
	m.lastDoneSet = [2]interface{}{id, done}
	return m.setDoneErr
}

func (m *mockLists) Update(_ context.Context, id string, upd models.ListItemUpdate) error {
	m.lastUpdated = id
	m.lastUpdate = upd
	return m.updateErr
}

func (m *mockLists) Remove(_ context.Context, id string) error {
	m.lastRemoved = id
	return m.removeErr
}

type mockThemes struct {
	tokens    models.ThemeTokens
	isDark    bool
	toggleErr error

	toggleCalled int
}

func (m *mockThemes) Tokens() models.ThemeTokens { return m.tokens }
func (m *mockThemes) IsDark() bool               { return m.isDark }
func (m *mockThemes) Toggle(_ context.Context) error {
	m.toggleCalled++
	return m.toggleErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
