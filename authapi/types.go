package authapi

import (
	"time"

	"golang.org/x/oauth2"
)

// User is the identity the backend attaches to a session
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	// VendorID is set for users acting on behalf of a vendor
	VendorID *int64 `json:"vendor_id,omitempty"`
}

// IsVendor reports whether the user may create products
func (u *User) IsVendor() bool {
	return u != nil && u.VendorID != nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	// AccessToken is sent as "Authorization: Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// RefreshToken is exchanged at /refresh for a new access token
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int `json:"expires_in"`

	User User `json:"user"`
}

// Token returns the access token with its expiry resolved against now
func (r *LoginResponse) Token(now time.Time) *oauth2.Token {
	return newToken(r.AccessToken, r.RefreshToken, r.TokenType, r.ExpiresIn, now)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse is returned by POST /refresh. The refresh token is not
// rotated.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (r *RefreshResponse) Token(refreshToken string, now time.Time) *oauth2.Token {
	return newToken(r.AccessToken, refreshToken, r.TokenType, r.ExpiresIn, now)
}

type VerifyRequest struct {
	Token string `json:"token"`
}

// TokenPayload is the decoded access token as reported by /verify
type TokenPayload struct {
	Sub    string `json:"sub"`
	UserID int64  `json:"user_id"`
	Source string `json:"source"`
}

type VerifyResponse struct {
	Valid   bool         `json:"valid"`
	User    User         `json:"user"`
	Payload TokenPayload `json:"payload"`
}

func newToken(access, refresh, tokenType string, expiresIn int, now time.Time) *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenType,
	}
	if expiresIn > 0 {
		token.Expiry = now.Add(time.Duration(expiresIn) * time.Second)
	}
	return token
}
