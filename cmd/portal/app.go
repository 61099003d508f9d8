package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/apiclient"
	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/config"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"github.com/jrsteele09/b2bmarket-portal/navigation"
	"github.com/jrsteele09/b2bmarket-portal/pages"
	"github.com/jrsteele09/b2bmarket-portal/session"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/rs/zerolog/log"
)

const passwordVar = "B2BMARKET_PASSWORD"

var errLoginRequired = errors.Wrapf(errors.ErrNotAuthenticated, "not logged in, run `portal login -email <email>`")

// app is one CLI invocation: the session manager and the marketplace API
// wired onto a single session store.
type app struct {
	cfg      config.Config
	store    storage.Store
	nav      *navigation.Recorder
	sessions *session.Manager
	market   *marketplace.Service

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(c config.Config, store storage.Store, in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		cfg:    c,
		store:  store,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
	a.nav = navigation.NewRecorder(cliNavigator{out: errOut})

	authAPI := authapi.New(c.GetAuthBaseURL(), c.GetRequestTimeout(), apiclient.WithRequestLogging())
	a.sessions = session.NewManager(authAPI, store, a.nav)

	client := apiclient.New(c.GetAPIBaseURL(), c.GetRequestTimeout(),
		apiclient.WithStore(store),
		apiclient.WithUnauthorizedHandler(a.sessions.Expire),
		apiclient.WithRequestLogging(),
	)
	a.market = marketplace.New(client)
	return a
}

// cliNavigator turns navigation into hints, a terminal has no views to switch
type cliNavigator struct {
	out io.Writer
}

func (n cliNavigator) Navigate(route navigation.Route) {
	log.Debug().Str("route", string(route)).Msg("Navigate")
}

func (n cliNavigator) Redirect(route navigation.Route) {
	if route == navigation.RouteLogin {
		fmt.Fprintln(n.out, "Your session has expired. Run `portal login` to sign in again.")
		return
	}
	log.Debug().Str("route", string(route)).Msg("Redirect")
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(rest)
	case "status":
		return a.status(ctx, rest)
	case "health":
		return a.health(ctx, rest)
	case "vendors":
		return a.vendors(ctx, rest)
	case "products":
		return a.products(ctx, rest)
	case "browse":
		return a.browse(ctx, rest)
	default:
		usage(a.errOut)
		return errors.Wrapf(errors.ErrUnsupported, "unknown command %q", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: portal <command> [flags]

Commands:
  login -email E [-password P]   sign in, the password is prompted when omitted
  logout                         end the session
  status                         show the signed in user
  health                         check the backend
  vendors list|get|create|update|delete
  products list|get|create|update|delete
  browse vendors|products        interactive searchable table

Run 'portal <command> -h' for the flags of a command.
`)
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// requireSession restores the persisted session and fails unless it ends up
// authenticated.
func (a *app) requireSession(ctx context.Context) (*authapi.User, error) {
	state := a.sessions.Restore(ctx)
	if !state.IsAuthenticated() {
		return nil, errLoginRequired
	}
	return state.User, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password, also read from "+passwordVar)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.Invalid("-email is required")
	}

	pw := *password
	if pw == "" {
		pw = os.Getenv(passwordVar)
	}
	if pw == "" {
		var err error
		if pw, err = a.prompt("Password: "); err != nil {
			return err
		}
	}

	if err := a.sessions.Login(ctx, strings.TrimSpace(*email), pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.sessions.User().Email)
	return nil
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.errOut, label)
	line, err := a.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrapf(err, "[prompt] read")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) logout(args []string) error {
	if err := a.flagSet("logout").Parse(args); err != nil {
		return err
	}
	a.sessions.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	if err := a.flagSet("status").Parse(args); err != nil {
		return err
	}
	user, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s (user #%d)\n", user.Email, user.ID)
	if user.IsVendor() {
		fmt.Fprintf(a.out, "Vendor:        #%d\n", *user.VendorID)
	}
	if expiry, ok := a.sessions.AccessTokenExpiry(); ok {
		fmt.Fprintf(a.out, "Token expires: %s (in %s)\n",
			expiry.Local().Format(time.DateTime), time.Until(expiry).Round(time.Second))
	}
	fmt.Fprintf(a.out, "API:           %s\n", a.cfg.GetAPIBaseURL())
	return nil
}

func (a *app) health(ctx context.Context, args []string) error {
	if err := a.flagSet("health").Parse(args); err != nil {
		return err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	page := pages.NewHealthPage(a.market)
	if err := page.Load(ctx); err != nil {
		return err
	}
	if err := page.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprint(a.out, page.View())
	return nil
}
