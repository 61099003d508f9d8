package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetAuthBaseURL() string
	GetRequestTimeout() time.Duration
}

type SessionConfig interface {
	GetSessionStore() StoreKind
	GetSessionFile() string
	GetSessionPassphrase() string
	GetRedisURL() string
	GetKeyPrefix() string
}

type mainConfig struct {
	EnvVars
	API
	Session
}

// New loads a .env file from the working directory when one exists and returns
// a Config backed by the process environment.
func New() Config {
	loadDotEnv()
	return mainConfig{}
}
