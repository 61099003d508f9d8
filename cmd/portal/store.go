package main

import (
	"github.com/jrsteele09/b2bmarket-portal/internal/config"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/jrsteele09/b2bmarket-portal/storage/filestore"
	"github.com/jrsteele09/b2bmarket-portal/storage/redisstore"
	"github.com/jrsteele09/b2bmarket-portal/storage/storefake"
	"github.com/rs/zerolog/log"
)

// openStore builds the session store named by the configuration, with the
// key prefix applied. The returned func releases it.
func openStore(c config.SessionConfig) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch kind := c.GetSessionStore(); kind {
	case config.StoreMemory:
		log.Debug().Msg("Using in-memory session store, the session ends with the process")
		return storage.WithPrefix(storefake.NewFakeStore(), c.GetKeyPrefix()), noop, nil

	case config.StoreRedis:
		rs, err := redisstore.NewFromURL(c.GetRedisURL())
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[openStore] redis")
		}
		return storage.WithPrefix(rs, c.GetKeyPrefix()), rs.Close, nil

	case config.StoreFile:
		var opts []filestore.Option
		if passphrase := c.GetSessionPassphrase(); passphrase != "" {
			opts = append(opts, filestore.WithPassphrase(passphrase))
		}
		fs, err := filestore.New(c.GetSessionFile(), opts...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[openStore] file")
		}
		return storage.WithPrefix(fs, c.GetKeyPrefix()), noop, nil

	default:
		return nil, nil, errors.Wrapf(errors.ErrUnsupported, "[openStore] session store %q", kind)
	}
}
