// Package backendfake is an in-process stand-in for the marketplace REST
// backend. It implements the auth, health, vendor and product routes closely
// enough to drive the portal end to end in tests.
package backendfake

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"golang.org/x/crypto/bcrypt"
)

// AccessTokenTTL is the lifetime reported in expires_in
const AccessTokenTTL = 15 * time.Minute

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type userRecord struct {
	user         authapi.User
	passwordHash []byte
}

// Request is what the backend saw of one incoming call
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type Backend struct {
	mu sync.Mutex

	signingKey    []byte
	users         map[string]*userRecord // email -> user
	accessTokens  map[string]authapi.User
	refreshTokens refreshTokens
	vendors       []marketplace.Vendor
	products      []marketplace.Product
	nextID        int64
	requests      []Request

	// Status overrides, zero means "behave normally"
	LoginStatus   int
	RefreshStatus int
	VerifyStatus  int
	// Delay is applied before every response
	Delay time.Duration

	router *mux.Router
}

func New() *Backend {
	key := make([]byte, 32)
	_, _ = rand.Read(key)

	b := &Backend{
		signingKey:    key,
		users:         make(map[string]*userRecord),
		accessTokens:  make(map[string]authapi.User),
		refreshTokens: make(refreshTokens),
		nextID:        1,
	}
	b.router = b.routes()
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
	})
	delay := b.Delay
	b.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	b.router.ServeHTTP(w, r)
}

// AddUser registers a user that can log in with password
func (b *Backend) AddUser(user authapi.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[strings.ToLower(user.Email)] = &userRecord{user: user, passwordHash: hash}
}

// IssueTokens creates a valid access/refresh pair for user without a login call
func (b *Backend) IssueTokens(user authapi.User) (accessToken, refreshToken string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueTokensLocked(user)
}

// RevokeAccessToken makes a previously issued access token invalid
func (b *Backend) RevokeAccessToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.accessTokens, token)
}

func (b *Backend) RevokeRefreshToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshTokens.revoke(token)
}

func (b *Backend) AddVendor(name string) marketplace.Vendor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addVendorLocked(name)
}

func (b *Backend) AddProduct(p marketplace.Product) marketplace.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = b.nextIDLocked()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = marketplace.Timestamp{Time: NowTimeFunc().UTC()}
	}
	p.VendorName = b.vendorNameLocked(p.VendorID)
	b.products = append(b.products, p)
	return p
}

func (b *Backend) Vendors() []marketplace.Vendor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]marketplace.Vendor{}, b.vendors...)
}

func (b *Backend) Products() []marketplace.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]marketplace.Product{}, b.products...)
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) issueTokensLocked(user authapi.User) (string, string) {
	return b.signAccessLocked(user), b.refreshTokens.create(user)
}

func (b *Backend) signAccessLocked(user authapi.User) string {
	now := NowTimeFunc()
	claims := jwt.MapClaims{
		"sub":     user.Email,
		"user_id": user.ID,
		"source":  "password",
		"iat":     now.Unix(),
		"exp":     now.Add(AccessTokenTTL).Unix(),
		"jti":     uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.signingKey)
	if err != nil {
		panic(err)
	}
	b.accessTokens[access] = user
	return access
}

func (b *Backend) addVendorLocked(name string) marketplace.Vendor {
	v := marketplace.Vendor{
		ID:        b.nextIDLocked(),
		Name:      name,
		CreatedAt: marketplace.Timestamp{Time: NowTimeFunc().UTC()},
	}
	b.vendors = append(b.vendors, v)
	return v
}

func (b *Backend) vendorNameLocked(id int64) *string {
	for _, v := range b.vendors {
		if v.ID == id {
			name := v.Name
			return &name
		}
	}
	return nil
}

func (b *Backend) nextIDLocked() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, field, message string) {
	writeJSON(w, status, map[string]string{field: message})
}
