package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/redis/go-redis/v9"
)

const defaultOpTimeout = 2 * time.Second

var _ storage.Store = (*Store)(nil)

// Store keeps session keys in Redis. Keys never expire on their own; a session
// ends only through logout or an auth failure.
type Store struct {
	client    *redis.Client
	opTimeout time.Duration
}

func New(client *redis.Client) *Store {
	return &Store{client: client, opTimeout: defaultOpTimeout}
}

// NewFromURL connects using a redis:// or rediss:// URL
func NewFromURL(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("[redisstore NewFromURL] parse url: %w", err)
	}
	return New(redis.NewClient(opts)), nil
}

func (s *Store) Get(key string) (string, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errors.ErrKeyNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "[redisstore] get %s", key)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "[redisstore] set %s", key)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "[redisstore] delete %s", key)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opTimeout)
}
