// Package pages holds the page controllers of the portal. A controller owns the
// load, submit and error state of one view and renders it for the terminal;
// the CLI and the interactive browser drive the same controllers.
package pages

import (
	"strings"

	"github.com/jrsteele09/b2bmarket-portal/internal/ui"
	"github.com/jrsteele09/b2bmarket-portal/internal/utils"
)

const emptyCell = "—"

// status is the state shared by every page. Loading and Submitting are set for
// the duration of a call and cleared whatever its outcome.
type status struct {
	loading    bool
	submitting bool
	err        string
}

func (s *status) Loading() bool    { return s.loading }
func (s *status) Submitting() bool { return s.submitting }

// ErrorMessage is the banner text of the last failed call, empty when it
// succeeded
func (s *status) ErrorMessage() string { return s.err }

func (s *status) fail(err error, fallback string) error {
	s.err = errorMessage(err, fallback)
	return err
}

func errorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// header renders the page title followed by the error banner, if any
func (s *status) header(title string) string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(title))
	b.WriteByte('\n')
	if banner := ui.ErrorBanner(s.err); banner != "" {
		b.WriteString(banner)
		b.WriteByte('\n')
	}
	return b.String()
}

// orDash renders an optional value, a dash when it is missing or blank
func orDash(v *string) string {
	if s := strings.TrimSpace(utils.Value(v)); s != "" {
		return s
	}
	return emptyCell
}

// optional trims s and returns nil when nothing is left
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
