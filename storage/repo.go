package storage

import (
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
)

// Store is the key-value persistence behind the portal session. Each key is
// read and written atomically; there is no multi-key transaction.
type Store interface {
	// Get returns errors.ErrKeyNotFound when the key is absent
	Get(key string) (string, error)

	// Set creates or overwrites a key
	Set(key, value string) error

	// Delete removes a key, deleting an absent key is not an error
	Delete(key string) error
}

// Lookup reads a key and reports whether it was present.
func Lookup(s Store, key string) (string, bool, error) {
	value, err := s.Get(key)
	if errors.Is(err, errors.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, value != "", nil
}

// Clear deletes every key, attempting all of them even if one fails.
func Clear(s Store, keys ...string) error {
	var firstErr error
	for _, key := range keys {
		if err := s.Delete(key); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "[storage Clear] delete %s", key)
		}
	}
	return firstErr
}
