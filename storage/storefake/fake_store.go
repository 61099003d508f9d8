package storefake

import (
	"fmt"
	"maps"
	"sync"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/storage"
)

var _ storage.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store. It backs the "memory" session store and the
// tests of every package that persists a session.
type FakeStore struct {
	values map[string]string
	lock   sync.RWMutex

	// FailSet, when set, makes Set return an error for the given key
	FailSet map[string]bool
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[string]string),
	}
}

func (fs *FakeStore) Get(key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	value, ok := fs.values[key]
	if !ok {
		return "", errors.ErrKeyNotFound
	}
	return value, nil
}

func (fs *FakeStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.FailSet[key] {
		return fmt.Errorf("set %s: write refused", key)
	}
	fs.values[key] = value
	return nil
}

func (fs *FakeStore) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, key)
	return nil
}

// Snapshot returns a copy of every stored key and value
func (fs *FakeStore) Snapshot() map[string]string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return maps.Clone(fs.values)
}
