package authapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/backendfake"
	"github.com/jrsteele09/b2bmarket-portal/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestAuthClient(t *testing.T) {
	backend := backendfake.New()
	vendorUser := authapi.User{ID: 3, Email: "carol@example.com", VendorID: utils.Ptr(int64(11))}
	backend.AddUser(vendorUser, "pw")
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := authapi.New(server.URL+"/api/auth", 5*time.Second)
	ctx := context.Background()

	login, err := client.Login(ctx, authapi.LoginRequest{Email: "carol@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, vendorUser, login.User)
	require.True(t, login.User.IsVendor())
	require.Equal(t, "bearer", login.TokenType)

	now := time.Now()
	token := login.Token(now)
	require.Equal(t, login.AccessToken, token.AccessToken)
	require.Equal(t, login.RefreshToken, token.RefreshToken)
	require.Equal(t, now.Add(backendfake.AccessTokenTTL), token.Expiry)

	verify, err := client.Verify(ctx, login.AccessToken)
	require.NoError(t, err)
	require.True(t, verify.Valid)
	require.Equal(t, "carol@example.com", verify.Payload.Sub)
	require.Equal(t, int64(3), verify.Payload.UserID)

	refreshed, err := client.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.AccessToken, refreshed.AccessToken)
	require.Equal(t, login.RefreshToken, refreshed.Token(login.RefreshToken, now).RefreshToken)

	_, err = client.Refresh(ctx, "unknown")
	require.Error(t, err)

	_, err = client.Verify(ctx, "garbage")
	require.Error(t, err)
}

func TestAuthClientRejectsEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/refresh":
			_, _ = w.Write([]byte(`{"access_token":"","token_type":"bearer"}`))
		case "/verify":
			_, _ = w.Write([]byte(`{"valid":false}`))
		}
	}))
	t.Cleanup(server.Close)

	client := authapi.New(server.URL, time.Second)
	_, err := client.Refresh(context.Background(), "B")
	require.Error(t, err)
	_, err = client.Verify(context.Background(), "A")
	require.Error(t, err)
}

func TestUserIsVendor(t *testing.T) {
	var nilUser *authapi.User
	require.False(t, nilUser.IsVendor())
	require.False(t, (&authapi.User{ID: 1}).IsVendor())
}
