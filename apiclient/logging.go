package apiclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/internal/ui"
	"github.com/rs/zerolog/log"
)

// WithRequestLogging logs every request at debug level with a coloured method
func WithRequestLogging() Option {
	return func(c *Client) {
		c.logRequests = true
	}
}

type loggingTransport struct {
	next http.RoundTripper
}

func (t loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	logRoute(req.Method, req.URL.Path, status, time.Since(start), err)
	return resp, err
}

func logRoute(method, path string, status int, elapsed time.Duration, err error) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	displayMethod := ui.MethodColor(method) + paddedMethod + ui.ResetColor
	log.Debug().Err(err).
		Int("status", status).
		Dur("elapsed", elapsed).
		Msgf("[%-19s] %s", displayMethod, path)
}

func withLogging(hc *http.Client) *http.Client {
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	logged := *hc
	logged.Transport = loggingTransport{next: next}
	return &logged
}
