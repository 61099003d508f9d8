package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/apiclient"
	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/backendfake"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/navigation"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/jrsteele09/b2bmarket-portal/storage/storefake"
	"github.com/stretchr/testify/require"
)

var bob = authapi.User{ID: 7, Email: "bob@example.com"}

func setup(t *testing.T) (*backendfake.Backend, *storefake.FakeStore, *navigation.Recorder, *apiclient.Client) {
	t.Helper()
	backend := backendfake.New()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	store := storefake.NewFakeStore()
	nav := navigation.NewRecorder(nil)
	client := apiclient.New(server.URL+"/api/", 5*time.Second,
		apiclient.WithStore(store),
		apiclient.WithUnauthorizedHandler(apiclient.ClearAndRedirect(store, nav)),
	)
	return backend, store, nav, client
}

func TestBearerInjection(t *testing.T) {
	backend, store, _, client := setup(t)
	access, _ := backend.IssueTokens(bob)

	var out []map[string]any
	err := client.Get(context.Background(), "/health/", nil, &map[string]any{})
	require.NoError(t, err)

	require.NoError(t, store.Set(storage.AccessTokenKey, access))
	require.NoError(t, client.Get(context.Background(), "/vendors/", nil, &out))
	require.Empty(t, out)

	requests := backend.Requests()
	require.Len(t, requests, 2)
	require.Empty(t, requests[0].Authorization)
	require.Equal(t, "Bearer "+access, requests[1].Authorization)
	require.NotEmpty(t, requests[0].RequestID)
	require.NotEqual(t, requests[0].RequestID, requests[1].RequestID)
}

func TestUnauthorizedEndsSession(t *testing.T) {
	for _, withRefresh := range []bool{true, false} {
		name := "without refresh token"
		if withRefresh {
			name = "with refresh token"
		}
		t.Run(name, func(t *testing.T) {
			backend, store, nav, client := setup(t)
			require.NoError(t, store.Set(storage.AccessTokenKey, "stale"))
			require.NoError(t, store.Set(storage.UserKey, `{"id":7,"email":"bob@example.com"}`))
			if withRefresh {
				require.NoError(t, store.Set(storage.RefreshTokenKey, "B"))
			}

			err := client.Get(context.Background(), "/vendors/", nil, &[]any{})
			require.Error(t, err)
			require.True(t, apiclient.IsUnauthorized(err))
			require.ErrorIs(t, err, errors.ErrUnauthorized)

			require.Empty(t, store.Snapshot())
			require.Equal(t, []navigation.Event{{Kind: navigation.KindRedirect, Route: navigation.RouteLogin}}, nav.Events())

			// no retry with a refreshed token
			require.Len(t, backend.Requests(), 1)
		})
	}
}

func TestOtherErrorsPassThrough(t *testing.T) {
	backend, store, nav, client := setup(t)
	access, _ := backend.IssueTokens(bob)
	require.NoError(t, store.Set(storage.AccessTokenKey, access))

	err := client.Get(context.Background(), "/vendors/99", nil, &map[string]any{})
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Vendor not found", apiErr.Error())
	require.False(t, apiclient.IsUnauthorized(err))

	require.Equal(t, access, store.Snapshot()[storage.AccessTokenKey])
	require.Empty(t, nav.Events())
}

func TestErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL, time.Second)
	err := client.Post(context.Background(), "/anything", map[string]string{"a": "b"}, nil)
	require.EqualError(t, err, "Request failed with status code 502")
}

func TestTimeout(t *testing.T) {
	backend := backendfake.New()
	backend.Delay = 500 * time.Millisecond
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL+"/api", 50*time.Millisecond)
	err := client.Get(context.Background(), "/ping/", nil, &map[string]any{})
	require.Error(t, err)
	_, isAPIErr := apiclient.AsAPIError(err)
	require.False(t, isAPIErr)
}

func TestHandlerCalledWithoutStore(t *testing.T) {
	backend := backendfake.New()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	calls := 0
	client := apiclient.New(server.URL+"/api", time.Second,
		apiclient.WithUnauthorizedHandler(func() { calls++ }))
	err := client.Delete(context.Background(), "/vendors/1")
	require.True(t, apiclient.IsUnauthorized(err))
	require.Equal(t, 1, calls)
}

func TestRequestLogging(t *testing.T) {
	backend := backendfake.New()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	hc := &http.Client{Timeout: time.Second}
	client := apiclient.New(server.URL+"/api", time.Second, apiclient.WithHTTPClient(hc), apiclient.WithRequestLogging())
	require.NoError(t, client.Get(context.Background(), "/ping/", nil, &map[string]any{}))
	require.Nil(t, hc.Transport)
}
