package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/talentlink/talentlink-client/internal/client/api"
	"github.com/talentlink/talentlink-client/internal/client/models"
	"github.com/talentlink/talentlink-client/internal/client/repositories/prefs"
	sessionrepo "github.com/talentlink/talentlink-client/internal/client/repositories/session"
	"github.com/talentlink/talentlink-client/internal/common"
	"github.com/talentlink/talentlink-client/internal/logging"
)

// registrationPrefsPrefix keys the cached registration-flow drafts wiped on
// logout alongside the session itself.
const registrationPrefsPrefix = "registration."

// defaultTokenFreshness is the access-token age under which a restored
// session is trusted without a verification round trip. A token younger
// than this was almost certainly written by a login immediately preceding
// the restart.
const defaultTokenFreshness = 60 * time.Second

// SessionManagerOptions wires the session manager's collaborators.
// Client and Sessions are required; the rest have working defaults.
type SessionManagerOptions struct {
	Client   api.Client
	Sessions sessionrepo.Repository
	Prefs    prefs.Repository
	Cookies  *CookieMirror
	Logger   logging.Logger

	// SSOSignOut, when set, is invoked best-effort during logout to end an
	// external single-sign-on session.
	SSOSignOut func(ctx context.Context) error

	// Redirect, when set, receives the post-logout navigation target.
	Redirect func(target string)

	// TokenFreshness overrides defaultTokenFreshness.
	TokenFreshness time.Duration
}

// SessionManager is the single source of truth for who is logged in. All
// state mutation goes through its methods; reads go through the typed
// accessors. It is safe for concurrent use.
type SessionManager struct {
	client  api.Client
	repo    sessionrepo.Repository
	prefs   prefs.Repository
	cookies *CookieMirror
	log     logging.Logger

	ssoSignOut func(ctx context.Context) error
	redirect   func(target string)

	freshness       time.Duration
	verifyRetryBase time.Duration

	refreshGroup singleflight.Group

	mu         sync.Mutex
	session    *models.Session
	loggingOut bool
	listeners  []func(authenticated bool)
	now        func() time.Time
}

func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	log := opts.Logger
	if log == nil {
		log = logging.NewDefault()
	}
	freshness := opts.TokenFreshness
	if freshness <= 0 {
		freshness = defaultTokenFreshness
	}
	return &SessionManager{
		client:          opts.Client,
		repo:            opts.Sessions,
		prefs:           opts.Prefs,
		cookies:         opts.Cookies,
		log:             log,
		ssoSignOut:      opts.SSOSignOut,
		redirect:        opts.Redirect,
		freshness:       freshness,
		verifyRetryBase: 500 * time.Millisecond,
		now:             time.Now,
	}
}

// Login installs a freshly authenticated session: in-memory state, the
// persisted row, and the mirrored cookies. All four values must be present;
// otherwise common.ErrInvalidLoginData is returned and nothing changes.
func (m *SessionManager) Login(ctx context.Context, user *models.User, accessToken, refreshToken string, userType common.UserType) error {
	if user == nil || accessToken == "" || refreshToken == "" || !userType.Valid() {
		return common.ErrInvalidLoginData
	}

	s := &models.Session{
		User:         user,
		UserType:     userType,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	// Persist before touching memory so a storage failure leaves no
	// half-installed session.
	if err := m.repo.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.session = s
	m.mu.Unlock()

	if m.cookies != nil {
		m.cookies.SetAuth(accessToken, userType)
	}

	m.log.Info(ctx, "session established", "user", user.ID, "role", string(userType))
	m.notifyAuthChange(true)
	return nil
}

// Logout tears the session down. It is reentrancy-safe: a second call while
// one is in flight is a no-op. The backend revocation and the SSO sign-out
// are best-effort; the local clearing sequence always runs and the user
// always ends up logged out, so Logout never returns an error.
func (m *SessionManager) Logout(ctx context.Context, redirectTarget string) {
	m.mu.Lock()
	if m.loggingOut {
		m.mu.Unlock()
		return
	}
	m.loggingOut = true
	var accessToken, refreshToken string
	if m.session != nil {
		accessToken = m.session.AccessToken
		refreshToken = m.session.RefreshToken
	}
	m.mu.Unlock()

	if accessToken != "" && refreshToken != "" {
		if err := m.client.NotifyLogout(ctx, accessToken, refreshToken); err != nil {
			m.log.Warn(ctx, "logout notification failed", "error", err)
		}
	}

	if m.ssoSignOut != nil {
		if err := m.ssoSignOut(ctx); err != nil {
			m.log.Warn(ctx, "sso sign-out failed", "error", err)
		}
	}

	m.clearLocalState(ctx)

	m.mu.Lock()
	m.loggingOut = false
	m.mu.Unlock()

	m.notifyAuthChange(false)

	if m.redirect != nil {
		m.redirect(redirectTarget)
	}
}

// clearLocalState wipes in-memory state, the persisted session row, the
// cached registration drafts, and every known auth cookie name. Individual
// failures are logged and swallowed; from the caller's perspective this
// step cannot fail.
func (m *SessionManager) clearLocalState(ctx context.Context) {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()

	if err := m.repo.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear persisted session", "error", err)
	}
	if m.prefs != nil {
		if err := m.prefs.DeletePrefix(ctx, registrationPrefsPrefix); err != nil {
			m.log.Warn(ctx, "failed to clear registration drafts", "error", err)
		}
	}
	if m.cookies != nil {
		m.cookies.ClearAll()
	}
}

// RefreshAccessToken exchanges the refresh token for a new access token.
// Concurrent callers share a single round trip. Unlike a verification
// failure, a refresh failure is terminal: the whole session is cleared.
func (m *SessionManager) RefreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		return m.refreshAccessToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *SessionManager) refreshAccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.loggingOut {
		m.mu.Unlock()
		return "", fmt.Errorf("%w: logout in progress", common.ErrRefreshFailed)
	}
	var refreshToken string
	if m.session != nil {
		refreshToken = m.session.RefreshToken
	}
	m.mu.Unlock()

	if refreshToken == "" {
		return "", common.ErrNoRefreshToken
	}

	newToken, err := m.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		m.log.Warn(ctx, "token refresh failed, clearing session", "error", err)
		m.clearLocalState(ctx)
		m.notifyAuthChange(false)
		return "", fmt.Errorf("%w: %v", common.ErrRefreshFailed, err)
	}

	m.mu.Lock()
	if m.session != nil {
		m.session.AccessToken = newToken
	}
	m.mu.Unlock()

	if err := m.repo.SaveAccessToken(ctx, newToken); err != nil {
		m.log.Error(ctx, "failed to persist refreshed access token", "error", err)
	}
	if m.cookies != nil {
		m.cookies.SetAccessToken(newToken)
	}

	m.log.Debug(ctx, "access token refreshed")
	return newToken, nil
}

// IsAuthenticated reports whether a usable session exists. All three
// conditions matter: a token can still be present during the logout
// teardown window.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && m.session.User != nil && m.session.AccessToken != "" && !m.loggingOut
}

// CurrentUser returns the logged-in user, or nil.
func (m *SessionManager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	return m.session.User
}

// UserType returns the current role, or UserTypeNone.
func (m *SessionManager) UserType() common.UserType {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return common.UserTypeNone
	}
	return m.session.UserType
}

// AccessToken returns the current access token, or "".
func (m *SessionManager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

// OnAuthChange registers a listener invoked after every authentication
// transition (login, logout, session clear). Listeners run outside the
// manager's lock and may call back into it.
func (m *SessionManager) OnAuthChange(fn func(authenticated bool)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *SessionManager) notifyAuthChange(authenticated bool) {
	m.mu.Lock()
	listeners := append([]func(bool){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(authenticated)
	}
}
