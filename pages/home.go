package pages

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/ui"
)

// HomePage is the landing view after login
type HomePage struct {
	appName string
	user    *authapi.User
}

func NewHomePage(appName string, user *authapi.User) *HomePage {
	return &HomePage{appName: appName, user: user}
}

func (p *HomePage) View() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Welcome to " + p.appName))
	b.WriteByte('\n')
	if p.user != nil {
		fmt.Fprintf(&b, "Signed in as %s\n", p.user.Email)
		if p.user.IsVendor() {
			fmt.Fprintf(&b, "Vendor account #%d\n", *p.user.VendorID)
		}
	}
	b.WriteString(ui.MutedStyle.Render("Manage vendors and products, or check the backend health."))
	b.WriteByte('\n')
	return b.String()
}
