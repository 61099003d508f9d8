package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/storage"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

var _ storage.Store = (*Store)(nil)

// Store keeps keys in a single JSON file so a session survives between runs.
// The file is re-read on every call; writes replace it atomically.
type Store struct {
	path   string
	cipher *sealer
	mu     sync.Mutex
}

type Option func(*Store) error

// WithPassphrase encrypts the file at rest with a key derived from passphrase.
func WithPassphrase(passphrase string) Option {
	return func(s *Store) error {
		if passphrase == "" {
			return nil
		}
		s.cipher = newSealer(passphrase)
		return nil
	}
}

func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("[filestore New] path is required")
	}
	s := &Store{path: path}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("[filestore New] %w", err)
		}
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", errors.ErrKeyNotFound
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[filestore] read %s", s.path)
	}
	if len(data) == 0 {
		return make(map[string]string), nil
	}

	if s.cipher != nil {
		if data, err = s.cipher.open(data); err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(err, "[filestore] decode %s", s.path)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "[filestore] encode")
	}
	if s.cipher != nil {
		if data, err = s.cipher.seal(data); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return errors.Wrapf(err, "[filestore] create directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return errors.Wrapf(err, "[filestore] create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "[filestore] write temp file")
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "[filestore] chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "[filestore] close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "[filestore] replace %s", s.path)
	}
	return nil
}
