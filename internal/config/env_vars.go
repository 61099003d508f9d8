package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envPrefix   = "B2BMARKET_"
	appNameVar  = "APP_NAME"
	logLevelVar = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "B2Bmarket Portal")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetLogLevel() string {
	return strings.ToLower(GetEnv(logLevelVar, "info"))
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// loadDotEnv is best effort: a missing .env leaves the real environment as is,
// and variables already set are never overwritten.
func loadDotEnv() {
	_ = godotenv.Load()
}
