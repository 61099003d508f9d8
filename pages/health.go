package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/b2bmarket-portal/internal/ui"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
)

type HealthAPI interface {
	Health(ctx context.Context) (*marketplace.Health, error)
	Ping(ctx context.Context) (*marketplace.Ping, error)
}

type HealthPage struct {
	status
	api    HealthAPI
	health *marketplace.Health
	ping   *marketplace.Ping
}

func NewHealthPage(api HealthAPI) *HealthPage {
	return &HealthPage{api: api}
}

func (p *HealthPage) Health() *marketplace.Health {
	return p.health
}

func (p *HealthPage) Load(ctx context.Context) error {
	p.loading = true
	p.err = ""
	defer func() { p.loading = false }()

	health, err := p.api.Health(ctx)
	if err != nil {
		return p.fail(err, "Failed to fetch health")
	}
	p.health = health
	return nil
}

// Ping checks the backend is reachable without touching the database
func (p *HealthPage) Ping(ctx context.Context) error {
	p.loading = true
	p.err = ""
	defer func() { p.loading = false }()

	ping, err := p.api.Ping(ctx)
	if err != nil {
		return p.fail(err, "Failed to ping backend")
	}
	p.ping = ping
	return nil
}

func (p *HealthPage) View() string {
	var b strings.Builder
	b.WriteString(p.header("Health check"))
	if p.err != "" {
		return b.String()
	}
	if p.health == nil {
		b.WriteString(ui.MutedStyle.Render("Loading…"))
		b.WriteByte('\n')
		return b.String()
	}

	statusStyle := ui.WarningStyle
	if p.health.IsHealthy() {
		statusStyle = ui.SuccessStyle
	}
	fmt.Fprintf(&b, "App:      %s\n", p.health.App)
	fmt.Fprintf(&b, "Status:   %s\n", statusStyle.Render(p.health.Status))
	fmt.Fprintf(&b, "DB:       %s\n", p.health.Database)
	if p.ping != nil {
		fmt.Fprintf(&b, "Ping:     %s\n", p.ping.Status)
	}
	return b.String()
}
