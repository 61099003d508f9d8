package authapi

import (
	"context"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/apiclient"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
)

const (
	routeLogin   = "/login"
	routeRefresh = "/refresh"
	routeVerify  = "/verify"
)

// API is the authentication surface of the backend
type API interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
	Verify(ctx context.Context, token string) (*VerifyResponse, error)
}

var _ API = (*Client)(nil)

// Client calls the auth endpoints. It carries no stored
// credentials and no 401 policy: failures are returned to the session manager.
type Client struct {
	http *apiclient.Client
}

func New(baseURL string, timeout time.Duration, opts ...apiclient.Option) *Client {
	return &Client{http: apiclient.New(baseURL, timeout, opts...)}
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.http.Post(ctx, routeLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var resp RefreshResponse
	if err := c.http.Post(ctx, routeRefresh, RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.Wrapf(errors.ErrSessionExpired, "[authapi Refresh] empty access token")
	}
	return &resp, nil
}

// Verify returns an error when the backend rejects the token or reports it as
// not valid.
func (c *Client) Verify(ctx context.Context, token string) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.http.Post(ctx, routeVerify, VerifyRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return &resp, errors.Wrapf(errors.ErrSessionExpired, "[authapi Verify] token not valid")
	}
	return &resp, nil
}
