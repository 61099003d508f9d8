package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/backendfake"
	"github.com/jrsteele09/b2bmarket-portal/navigation"
	"github.com/jrsteele09/b2bmarket-portal/session"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/jrsteele09/b2bmarket-portal/storage/storefake"
	"github.com/stretchr/testify/require"
)

var alice = authapi.User{ID: 1, Email: "alice@example.com"}

type harness struct {
	backend *backendfake.Backend
	server  *httptest.Server
	store   *storefake.FakeStore
	nav     *navigation.Recorder
	manager *session.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := backendfake.New()
	backend.AddUser(alice, "secret")
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	return newHarnessFor(t, backend, server)
}

func newHarnessFor(t *testing.T, backend *backendfake.Backend, server *httptest.Server) *harness {
	t.Helper()
	store := storefake.NewFakeStore()
	nav := navigation.NewRecorder(nil)
	api := authapi.New(server.URL+"/api/auth", 5*time.Second)
	return &harness{
		backend: backend,
		server:  server,
		store:   store,
		nav:     nav,
		manager: session.NewManager(api, store, nav),
	}
}

func (h *harness) persist(t *testing.T, access, refresh string, user any) {
	t.Helper()
	require.NoError(t, h.store.Set(storage.AccessTokenKey, access))
	if refresh != "" {
		require.NoError(t, h.store.Set(storage.RefreshTokenKey, refresh))
	}
	raw, ok := user.(string)
	if !ok {
		b, err := json.Marshal(user)
		require.NoError(t, err)
		raw = string(b)
	}
	require.NoError(t, h.store.Set(storage.UserKey, raw))
}

func TestStateIsAuthenticated(t *testing.T) {
	require.False(t, session.State{}.IsAuthenticated())
	require.False(t, session.State{Loading: true, Phase: session.PhaseRestoring}.IsAuthenticated())
	require.True(t, session.State{User: &alice}.IsAuthenticated())
	require.Equal(t, "authenticated", session.PhaseAuthenticated.String())
}

func TestLogin(t *testing.T) {
	t.Run("success persists tokens and user", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.manager.Login(context.Background(), alice.Email, "secret"))

		snap := h.store.Snapshot()
		require.Len(t, snap, 3)
		require.NotEmpty(t, snap[storage.AccessTokenKey])
		require.NotEmpty(t, snap[storage.RefreshTokenKey])
		userJSON, err := json.Marshal(alice)
		require.NoError(t, err)
		require.JSONEq(t, string(userJSON), snap[storage.UserKey])

		state := h.manager.State()
		require.True(t, state.IsAuthenticated())
		require.Equal(t, session.PhaseAuthenticated, state.Phase)
		require.False(t, state.Loading)
		require.Equal(t, alice.Email, state.User.Email)

		last, ok := h.nav.Last()
		require.True(t, ok)
		require.Equal(t, navigation.Event{Kind: navigation.KindNavigate, Route: navigation.RouteHome}, last)
	})

	t.Run("invalid credentials leave the store untouched", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.Set("unrelated", "x"))
		before := h.store.Snapshot()

		err := h.manager.Login(context.Background(), alice.Email, "wrong")
		require.Error(t, err)
		require.Equal(t, "Invalid credentials", err.Error())

		var loginErr *session.LoginError
		require.ErrorAs(t, err, &loginErr)
		require.Equal(t, before, h.store.Snapshot())
		require.False(t, h.manager.State().IsAuthenticated())
		require.Empty(t, h.nav.Events())
	})

	t.Run("response without message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(server.Close)
		h := newHarnessFor(t, nil, server)

		err := h.manager.Login(context.Background(), alice.Email, "secret")
		require.EqualError(t, err, "Login failed")
		require.Empty(t, h.store.Snapshot())
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		h := newHarnessFor(t, nil, server)

		err := h.manager.Login(context.Background(), alice.Email, "secret")
		require.Error(t, err)
		require.NotEqual(t, "Login failed", err.Error())
		require.Contains(t, err.Error(), "/login")
		require.Empty(t, h.store.Snapshot())
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		h := newHarness(t)
		h.store.FailSet = map[string]bool{storage.UserKey: true}

		err := h.manager.Login(context.Background(), alice.Email, "secret")
		require.Error(t, err)
		require.Empty(t, h.store.Snapshot())
		require.False(t, h.manager.State().IsAuthenticated())
	})

	t.Run("store failure keeps the previous session", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.manager.Login(context.Background(), alice.Email, "secret"))
		before := h.store.Snapshot()
		h.store.FailSet = map[string]bool{storage.UserKey: true}

		err := h.manager.Login(context.Background(), alice.Email, "secret")
		require.Error(t, err)
		var loginErr *session.LoginError
		require.ErrorAs(t, err, &loginErr)

		require.Equal(t, before, h.store.Snapshot())
		state := h.manager.State()
		require.True(t, state.IsAuthenticated())
		require.Equal(t, session.PhaseAuthenticated, state.Phase)
		require.Equal(t, alice.Email, state.User.Email)
	})

	t.Run("keys written before the failure are removed", func(t *testing.T) {
		h := newHarness(t)
		h.store.FailSet = map[string]bool{storage.RefreshTokenKey: true}

		err := h.manager.Login(context.Background(), alice.Email, "secret")
		require.Error(t, err)
		require.Contains(t, err.Error(), "store refresh token")
		require.Empty(t, h.store.Snapshot())
		require.False(t, h.manager.State().IsAuthenticated())
		require.Empty(t, h.nav.Events())
	})
}

func TestRestore(t *testing.T) {
	t.Run("nothing persisted", func(t *testing.T) {
		h := newHarness(t)

		state := h.manager.Restore(context.Background())
		require.Equal(t, session.PhaseAnonymous, state.Phase)
		require.False(t, state.Loading)
		require.Nil(t, state.User)
		require.Empty(t, h.nav.Events())
	})

	t.Run("partial state is anonymous", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.Set(storage.AccessTokenKey, "A"))

		state := h.manager.Restore(context.Background())
		require.Equal(t, session.PhaseAnonymous, state.Phase)
	})

	t.Run("valid token", func(t *testing.T) {
		h := newHarness(t)
		access, refresh := h.backend.IssueTokens(alice)
		h.persist(t, access, refresh, alice)

		var seen []session.State
		var mu sync.Mutex
		unsubscribe := h.manager.Subscribe(func(s session.State) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, s)
		})
		defer unsubscribe()

		state := h.manager.Restore(context.Background())
		require.Equal(t, session.PhaseAuthenticated, state.Phase)
		require.False(t, state.Loading)
		require.Equal(t, alice.Email, state.User.Email)
		require.Empty(t, h.nav.Events())

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, seen, 2)
		require.True(t, seen[0].Loading)
		require.Equal(t, session.PhaseRestoring, seen[0].Phase)
		require.True(t, seen[0].IsAuthenticated())
	})

	t.Run("rejected token is refreshed", func(t *testing.T) {
		h := newHarness(t)
		access, refresh := h.backend.IssueTokens(alice)
		h.backend.RevokeAccessToken(access)
		h.persist(t, access, refresh, alice)

		state := h.manager.Restore(context.Background())
		require.Equal(t, session.PhaseAuthenticated, state.Phase)
		require.False(t, state.Loading)

		snap := h.store.Snapshot()
		require.NotEqual(t, access, snap[storage.AccessTokenKey])
		require.Equal(t, refresh, snap[storage.RefreshTokenKey])
	})

	t.Run("refresh rejected ends the session", func(t *testing.T) {
		h := newHarness(t)
		access, refresh := h.backend.IssueTokens(alice)
		h.backend.RevokeAccessToken(access)
		h.backend.RefreshStatus = http.StatusUnauthorized
		h.persist(t, access, refresh, alice)

		state := h.manager.Restore(context.Background())
		require.Equal(t, session.PhaseAnonymous, state.Phase)
		require.False(t, state.Loading)
		require.Nil(t, state.User)
		require.Empty(t, h.store.Snapshot())
	})

	t.Run("rejected token without refresh token", func(t *testing.T) {
		h := newHarness(t)
		access, _ := h.backend.IssueTokens(alice)
		h.backend.RevokeAccessToken(access)
		h.persist(t, access, "", alice)

		state := h.manager.Restore(context.Background())
		require.Equal(t, session.PhaseAnonymous, state.Phase)
		require.Empty(t, h.store.Snapshot())

		last, ok := h.nav.Last()
		require.True(t, ok)
		require.Equal(t, navigation.RouteLogin, last.Route)
	})

	t.Run("corrupt user", func(t *testing.T) {
		h := newHarness(t)
		h.persist(t, "A", "B", "{not json")

		state := h.manager.Restore(context.Background())
		require.Equal(t, session.PhaseAnonymous, state.Phase)
		require.False(t, state.Loading)
		require.Empty(t, h.store.Snapshot())
		require.Empty(t, h.backend.Requests())
	})

	t.Run("null or incomplete user", func(t *testing.T) {
		for _, raw := range []string{"null", "{}", `{"id":1}`, `{"email":"alice@example.com"}`} {
			h := newHarness(t)
			h.persist(t, "A", "B", raw)

			state := h.manager.Restore(context.Background())
			require.Equal(t, session.PhaseAnonymous, state.Phase, raw)
			require.False(t, state.IsAuthenticated(), raw)
			require.Empty(t, h.store.Snapshot(), raw)
			require.Empty(t, h.backend.Requests(), raw)
		}
	})
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.manager.Login(context.Background(), alice.Email, "secret"))

	h.manager.Logout()
	require.Empty(t, h.store.Snapshot())
	require.False(t, h.manager.State().IsAuthenticated())
	last, _ := h.nav.Last()
	require.Equal(t, navigation.Event{Kind: navigation.KindNavigate, Route: navigation.RouteLogin}, last)

	// idempotent
	h.manager.Logout()
	require.Equal(t, session.PhaseAnonymous, h.manager.Phase())
}

func TestExpire(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.manager.Login(context.Background(), alice.Email, "secret"))

	h.manager.Expire()
	require.Empty(t, h.store.Snapshot())
	require.Nil(t, h.manager.User())
	last, _ := h.nav.Last()
	require.Equal(t, navigation.Event{Kind: navigation.KindRedirect, Route: navigation.RouteLogin}, last)
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("no refresh token logs out", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.Set(storage.AccessTokenKey, "A"))

		h.manager.RefreshAccessToken(context.Background())
		require.Empty(t, h.store.Snapshot())
		require.Equal(t, session.PhaseAnonymous, h.manager.Phase())
	})

	t.Run("success overwrites only the access token", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.manager.Login(context.Background(), alice.Email, "secret"))
		before := h.store.Snapshot()

		h.manager.RefreshAccessToken(context.Background())
		after := h.store.Snapshot()
		require.NotEqual(t, before[storage.AccessTokenKey], after[storage.AccessTokenKey])
		require.Equal(t, before[storage.RefreshTokenKey], after[storage.RefreshTokenKey])
		require.Equal(t, before[storage.UserKey], after[storage.UserKey])
		require.True(t, h.manager.State().IsAuthenticated())
	})
}

func TestSubscribeUnsubscribe(t *testing.T) {
	h := newHarness(t)
	calls := 0
	unsubscribe := h.manager.Subscribe(func(session.State) { calls++ })

	h.manager.Logout()
	require.Equal(t, 1, calls)

	unsubscribe()
	h.manager.Logout()
	require.Equal(t, 1, calls)
}

func TestAccessTokenExpiry(t *testing.T) {
	h := newHarness(t)
	_, ok := h.manager.AccessTokenExpiry()
	require.False(t, ok)

	require.NoError(t, h.manager.Login(context.Background(), alice.Email, "secret"))
	expiry, ok := h.manager.AccessTokenExpiry()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(backendfake.AccessTokenTTL), expiry, 5*time.Second)

	// opaque token falls back to the lifetime reported at login
	require.NoError(t, h.store.Set(storage.AccessTokenKey, "opaque"))
	expiry, ok = h.manager.AccessTokenExpiry()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(backendfake.AccessTokenTTL), expiry, 5*time.Second)
}
