package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
)

const maxErrorBody = 64 * 1024

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	// Message is the backend provided error text, empty when the body had none
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// Is lets errors.Is match a 401 as errors.ErrUnauthorized and a 404 as
// errors.ErrNotFound
func (e *APIError) Is(target error) bool {
	switch target {
	case errors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case errors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    backendMessage(body),
		Body:       body,
	}
}

// backendMessage reads the first string among the error fields the backend
// uses: "error", then "detail", then "message".
func backendMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, name := range []string{"error", "detail", "message"} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return ""
}

// AsAPIError unwraps err to an *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	return errors.Is(err, errors.ErrUnauthorized)
}
