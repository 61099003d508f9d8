// Package session owns the operator's authentication lifecycle: restoring a
// persisted session, login, logout, token refresh and the reaction to a 401.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/b2bmarket-portal/apiclient"
	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/navigation"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager is the single session object. Every mutation goes through Restore,
// Login, Logout, RefreshAccessToken or Expire.
type Manager struct {
	api   authapi.API
	store storage.Store
	nav   navigation.Navigator

	lock      sync.RWMutex
	state     State
	token     *oauth2.Token
	listeners map[int]Listener
	nextID    int
}

func NewManager(api authapi.API, store storage.Store, nav navigation.Navigator) *Manager {
	return &Manager{
		api:       api,
		store:     store,
		nav:       nav,
		listeners: make(map[int]Listener),
	}
}

func (m *Manager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state
}

func (m *Manager) Phase() Phase {
	return m.State().Phase
}

func (m *Manager) User() *authapi.User {
	return m.State().User
}

// Subscribe registers fn for state changes and returns a function removing it.
func (m *Manager) Subscribe(fn Listener) func() {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		delete(m.listeners, id)
	}
}

// Restore rebuilds the session from the store. A persisted user and access
// token are trusted optimistically, then the token is verified with the
// backend; a rejected token falls back to a refresh when a refresh token
// exists, otherwise the session is logged out.
func (m *Manager) Restore(ctx context.Context) State {
	accessToken, rawUser, ok := m.persistedSession()
	if !ok {
		m.setState(State{Phase: PhaseAnonymous}, nil)
		return m.State()
	}

	user, err := decodeUser(rawUser)
	if err != nil {
		log.Err(err).Msg("Discarding persisted session")
		m.Logout()
		return m.State()
	}

	m.setState(State{User: &user, Loading: true, Phase: PhaseRestoring},
		&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	if _, err := m.api.Verify(ctx, accessToken); err != nil {
		log.Debug().Err(err).Msg("Access token rejected, trying refresh")
		if _, found, _ := storage.Lookup(m.store, storage.RefreshTokenKey); found {
			m.RefreshAccessToken(ctx)
		} else {
			m.Logout()
		}
		return m.State()
	}

	m.update(func(s *State) {
		s.Loading = false
		s.Phase = PhaseAuthenticated
	})
	return m.State()
}

// decodeUser parses the persisted user. JSON null or a user without an ID or
// email is as corrupt as malformed JSON.
func decodeUser(raw string) (authapi.User, error) {
	var user authapi.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return authapi.User{}, errors.Wrapf(errors.ErrCorruptSession, "[session Restore] %v", err)
	}
	if user.ID == 0 || user.Email == "" {
		return authapi.User{}, errors.Wrapf(errors.ErrCorruptSession, "[session Restore] incomplete user %q", raw)
	}
	return user, nil
}

// persistedSession reports a usable session only when both the access token
// and the user are stored. Partial state counts as no session.
func (m *Manager) persistedSession() (accessToken, rawUser string, ok bool) {
	accessToken, hasToken, err := storage.Lookup(m.store, storage.AccessTokenKey)
	if err != nil {
		log.Err(err).Msg("Failed to read access token")
		return "", "", false
	}
	rawUser, hasUser, err := storage.Lookup(m.store, storage.UserKey)
	if err != nil {
		log.Err(err).Msg("Failed to read user")
		return "", "", false
	}
	return accessToken, rawUser, hasToken && hasUser
}

// Login exchanges credentials for tokens. On failure the store is left
// untouched and a *LoginError is returned.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.api.Login(ctx, authapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return &LoginError{Message: loginErrorMessage(err), Err: err}
	}
	if resp.AccessToken == "" {
		return &LoginError{Message: errors.ErrLoginFailed.Error(), Err: errors.ErrLoginFailed}
	}

	prior, err := m.snapshot()
	if err != nil {
		return &LoginError{Message: err.Error(), Err: err}
	}

	user := resp.User
	if written, err := m.persist(resp, &user); err != nil {
		m.rollback(prior, written)
		return &LoginError{Message: err.Error(), Err: err}
	}

	m.setState(State{User: &user, Phase: PhaseAuthenticated}, resp.Token(NowTimeFunc()))
	log.Info().Str("email", user.Email).Msg("Logged in")
	m.navigate(navigation.RouteHome)
	return nil
}

// persist writes the session keys in order and returns the keys it wrote
// before any failure.
func (m *Manager) persist(resp *authapi.LoginResponse, user *authapi.User) ([]string, error) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, errors.Wrapf(err, "[session Login] encode user")
	}

	writes := []struct{ key, value, label string }{
		{storage.AccessTokenKey, resp.AccessToken, "access token"},
		{storage.RefreshTokenKey, resp.RefreshToken, "refresh token"},
		{storage.UserKey, string(userJSON), "user"},
	}
	written := make([]string, 0, len(writes))
	for _, w := range writes {
		if err := m.store.Set(w.key, w.value); err != nil {
			return written, errors.Wrapf(err, "[session Login] store %s", w.label)
		}
		written = append(written, w.key)
	}
	return written, nil
}

// snapshot reads the session keys as they are before a login writes them. A
// nil value marks an absent key.
func (m *Manager) snapshot() (map[string]*string, error) {
	prior := make(map[string]*string, len(storage.SessionKeys))
	for _, key := range storage.SessionKeys {
		value, found, err := storage.Lookup(m.store, key)
		if err != nil {
			return nil, errors.Wrapf(err, "[session Login] read %s", key)
		}
		if found {
			prior[key] = &value
		}
	}
	return prior, nil
}

// rollback puts the written keys back as snapshot found them, so a failed
// login leaves a previous session intact. When that fails too the session is
// dropped from both the store and memory.
func (m *Manager) rollback(prior map[string]*string, written []string) {
	for _, key := range written {
		value := prior[key]
		var err error
		if value == nil {
			err = m.store.Delete(key)
		} else {
			err = m.store.Set(key, *value)
		}
		if err != nil {
			log.Err(err).Str("key", key).Msg("Failed to restore session after login failure")
			m.clear()
			return
		}
	}
}

// loginErrorMessage prefers the backend's own message, then a generic
// failure when the backend answered without one, then the transport error.
func loginErrorMessage(err error) string {
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return errors.ErrLoginFailed.Error()
	}
	return err.Error()
}

// Logout drops the session and sends the user to the login view. It is safe
// to call with no session.
func (m *Manager) Logout() {
	m.clear()
	m.navigate(navigation.RouteLogin)
}

// Expire is the 401 hook for the HTTP client: the session is dropped and the
// user is hard redirected to the login view.
func (m *Manager) Expire() {
	m.clear()
	if m.nav != nil {
		m.nav.Redirect(navigation.RouteLogin)
	}
}

// RefreshAccessToken obtains a new access token with the stored refresh token.
// It never fails: any problem is logged and ends the session.
func (m *Manager) RefreshAccessToken(ctx context.Context) {
	refreshToken, found, err := storage.Lookup(m.store, storage.RefreshTokenKey)
	if err != nil || !found {
		if err == nil {
			err = errors.ErrNoRefreshToken
		}
		log.Err(err).Msg("Token refresh failed")
		m.Logout()
		return
	}

	resp, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		log.Err(err).Msg("Token refresh failed")
		m.Logout()
		return
	}
	if err := m.store.Set(storage.AccessTokenKey, resp.AccessToken); err != nil {
		log.Err(err).Msg("Failed to store refreshed access token")
		m.Logout()
		return
	}

	token := resp.Token(refreshToken, NowTimeFunc())
	m.lock.Lock()
	m.token = token
	m.state.Loading = false
	if m.state.User != nil {
		m.state.Phase = PhaseAuthenticated
	}
	m.lock.Unlock()
	m.notify()
}

// AccessTokenExpiry reads the exp claim of the stored access token without
// verifying it. Opaque tokens fall back to the lifetime reported at login.
func (m *Manager) AccessTokenExpiry() (time.Time, bool) {
	accessToken, found, err := storage.Lookup(m.store, storage.AccessTokenKey)
	if err == nil && found {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				return exp.Time, true
			}
		}
	}

	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.token != nil && !m.token.Expiry.IsZero() {
		return m.token.Expiry, true
	}
	return time.Time{}, false
}

func (m *Manager) clear() {
	if err := storage.ClearSession(m.store); err != nil {
		log.Err(err).Msg("Failed to clear session")
	}
	m.setState(State{Phase: PhaseAnonymous}, nil)
}

func (m *Manager) navigate(route navigation.Route) {
	if m.nav != nil {
		m.nav.Navigate(route)
	}
}

func (m *Manager) setState(s State, token *oauth2.Token) {
	m.lock.Lock()
	m.state = s
	m.token = token
	m.lock.Unlock()
	m.notify()
}

func (m *Manager) update(fn func(*State)) {
	m.lock.Lock()
	fn(&m.state)
	m.lock.Unlock()
	m.notify()
}

// notify runs listeners outside the lock so they may call back into the manager
func (m *Manager) notify() {
	m.lock.RLock()
	state := m.state
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.lock.RUnlock()

	for _, fn := range listeners {
		fn(state)
	}
}
