package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	contentTypeJSON = "application/json"
	requestIDHeader = "X-Request-ID"
)

// UnauthorizedHandler is called once for every 401 response.
type UnauthorizedHandler func()

// Client dispatches JSON requests to the backend. When a store is set, the
// persisted access token is attached to every request as a bearer credential.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          storage.Store
	onUnauthorized UnauthorizedHandler
	logRequests    bool
}

type Option func(*Client)

// WithStore sets where the access token is read from
func WithStore(store storage.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithUnauthorizedHandler replaces the default 401 policy
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) {
		c.onUnauthorized = h
	}
}

// WithHTTPClient swaps the underlying client. Its Timeout is kept as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logRequests {
		c.httpClient = withLogging(c.httpClient)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do sends one request. A non-2xx response is returned as *APIError; a 401 also
// triggers the unauthorized handler before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[apiclient %s %s] %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := newAPIError(resp)
		log.Warn().Str("method", method).Str("path", path).Msg("Unauthorized response, ending session")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("[apiclient %s %s] decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("[apiclient %s %s] encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("[apiclient %s %s] %w", method, path, err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(requestIDHeader, uuid.NewString())

	if err := c.authorize(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (c *Client) authorize(req *http.Request) error {
	if c.store == nil {
		return nil
	}
	accessToken, found, err := storage.Lookup(c.store, storage.AccessTokenKey)
	if err != nil {
		return errors.Wrapf(err, "[apiclient] read access token")
	}
	if !found {
		return nil
	}
	token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	token.SetAuthHeader(req)
	return nil
}
