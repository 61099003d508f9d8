package backendfake

import (
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/b2bmarket-portal/authapi"
)

// RefreshTokenTTL is how long a refresh token can be exchanged
const RefreshTokenTTL = 7 * 24 * time.Hour

// storedRefreshToken is the server side record of an opaque refresh token
type storedRefreshToken struct {
	Token string
	User  authapi.User
	Iat   time.Time
}

// refreshTokens holds the issued refresh tokens. Callers hold Backend.mu.
type refreshTokens map[string]*storedRefreshToken

func (rt refreshTokens) create(user authapi.User) string {
	token := uuid.NewString()
	rt[token] = &storedRefreshToken{
		Token: token,
		User:  user,
		Iat:   NowTimeFunc(),
	}
	return token
}

// lookup returns the token's record, dropping it when it has expired
func (rt refreshTokens) lookup(token string) (*storedRefreshToken, bool) {
	stored, ok := rt[token]
	if !ok {
		return nil, false
	}
	if NowTimeFunc().Sub(stored.Iat) > RefreshTokenTTL {
		delete(rt, token)
		return nil, false
	}
	return stored, true
}

func (rt refreshTokens) revoke(token string) {
	delete(rt, token)
}
