package storage

// Logical session keys. Backends see them with the application prefix applied.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	UserKey         = "user"
)

// SessionKeys lists every key that makes up a persisted session.
var SessionKeys = []string{AccessTokenKey, RefreshTokenKey, UserKey}

// ClearSession removes the access token, refresh token and user.
func ClearSession(s Store) error {
	return Clear(s, SessionKeys...)
}

type prefixed struct {
	prefix string
	store  Store
}

var _ Store = (*prefixed)(nil)

// WithPrefix namespaces every key of the underlying store, so that the
// logical key "user" is persisted as "b2bmarket_user".
func WithPrefix(s Store, prefix string) Store {
	return &prefixed{prefix: prefix, store: s}
}

func (p *prefixed) Get(key string) (string, error) {
	return p.store.Get(p.prefix + key)
}

func (p *prefixed) Set(key, value string) error {
	return p.store.Set(p.prefix+key, value)
}

func (p *prefixed) Delete(key string) error {
	return p.store.Delete(p.prefix + key)
}
