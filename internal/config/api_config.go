package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	apiBaseURLVar      = envPrefix + "API_BASE_URL"
	authAPIURLVar      = envPrefix + "AUTH_API_URL"
	useProxyVar        = envPrefix + "USE_PROXY"
	backendURLVar      = envPrefix + "BACKEND_URL"
	backendProtocolVar = envPrefix + "BACKEND_PROTOCOL"
	backendHostVar     = envPrefix + "BACKEND_HOST"
	backendPortVar     = envPrefix + "BACKEND_PORT"
	proxyOriginVar     = envPrefix + "PROXY_ORIGIN"

	apiPath = "/api"
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL resolves the REST base URL. Priority:
//  1. B2BMARKET_API_BASE_URL
//  2. B2BMARKET_BACKEND_URL + /api (proxy disabled)
//  3. protocol://host:port/api from the backend components (proxy disabled)
//  4. /api on the dev proxy origin
func (API) GetAPIBaseURL() string {
	if explicit := GetEnv(apiBaseURLVar, ""); explicit != "" {
		return strings.TrimRight(explicit, "/")
	}

	useProxy := GetEnv(useProxyVar, "") != "false"
	if !useProxy {
		if backendURL := strings.TrimRight(GetEnv(backendURLVar, ""), "/"); backendURL != "" {
			if strings.HasSuffix(backendURL, apiPath) {
				return backendURL
			}
			return backendURL + apiPath
		}

		protocol := GetEnv(backendProtocolVar, "http")
		host := GetEnv(backendHostVar, "localhost")
		port := GetEnv(backendPortVar, "8210")
		return fmt.Sprintf("%s://%s:%s%s", protocol, host, port, apiPath)
	}

	// A terminal has no page origin, so the relative path is anchored on the
	// dev proxy.
	origin := strings.TrimRight(GetEnv(proxyOriginVar, "http://localhost:3000"), "/")
	return origin + apiPath
}

// GetAuthBaseURL defaults to the auth routes under the API base URL.
func (a API) GetAuthBaseURL() string {
	if authURL := GetEnv(authAPIURLVar, ""); authURL != "" {
		return strings.TrimRight(authURL, "/")
	}
	return a.GetAPIBaseURL() + "/auth"
}

func (API) GetRequestTimeout() time.Duration {
	return 10 * time.Second
}
