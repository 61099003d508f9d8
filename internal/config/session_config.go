package config

import (
	"os"
	"path/filepath"
)

// StoreKind selects the persistence backend for session tokens.
type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreMemory StoreKind = "memory"
	StoreRedis  StoreKind = "redis"
)

const (
	sessionStoreVar      = envPrefix + "SESSION_STORE"
	sessionFileVar       = envPrefix + "SESSION_FILE"
	sessionPassphraseVar = envPrefix + "SESSION_PASSPHRASE"
	redisURLVar          = envPrefix + "REDIS_URL"
	keyPrefixVar         = envPrefix + "KEY_PREFIX"
)

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionStore() StoreKind {
	switch kind := StoreKind(GetEnv(sessionStoreVar, string(StoreFile))); kind {
	case StoreMemory, StoreRedis:
		return kind
	default:
		return StoreFile
	}
}

func (Session) GetSessionFile() string {
	if path := GetEnv(sessionFileVar, ""); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "b2bmarket", "session.json")
}

// GetSessionPassphrase enables encryption of the session file when set.
func (Session) GetSessionPassphrase() string {
	return GetEnv(sessionPassphraseVar, "")
}

func (Session) GetRedisURL() string {
	return GetEnv(redisURLVar, "redis://localhost:6379/0")
}

func (Session) GetKeyPrefix() string {
	return GetEnv(keyPrefixVar, "b2bmarket_")
}
