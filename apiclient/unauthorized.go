package apiclient

import (
	"github.com/jrsteele09/b2bmarket-portal/navigation"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/rs/zerolog/log"
)

// ClearAndRedirect is the 401 policy used when no session manager is wired:
// drop every persisted session key and hard redirect to the login view. It
// never retries the request with a refreshed token.
func ClearAndRedirect(store storage.Store, nav navigation.Navigator) UnauthorizedHandler {
	return func() {
		if store != nil {
			if err := storage.ClearSession(store); err != nil {
				log.Err(err).Msg("Failed to clear session after 401")
			}
		}
		if nav != nil {
			nav.Redirect(navigation.RouteLogin)
		}
	}
}
