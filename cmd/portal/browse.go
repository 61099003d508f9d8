package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"github.com/jrsteele09/b2bmarket-portal/pages"
	"github.com/jrsteele09/b2bmarket-portal/table"
)

// browse opens an interactive, searchable table of vendors or products
func (a *app) browse(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.Invalid("usage: portal browse vendors|products")
	}
	user, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	var model tea.Model
	switch args[0] {
	case "vendors":
		model = table.NewModel("Vendors", pages.VendorColumns(), a.market.ListVendors,
			table.WithEmptyMessage("No vendors yet.")).WithContext(ctx)
	case "products":
		load := func(ctx context.Context) ([]marketplace.Product, error) {
			return a.market.ListProducts(ctx, marketplace.ProductFilter{})
		}
		model = table.NewModel("Products", pages.ProductColumns(), load,
			table.WithEmptyMessage(pages.ProductEmptyMessage(user))).WithContext(ctx)
	default:
		return errors.Wrapf(errors.ErrUnsupported, "cannot browse %q", args[0])
	}

	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return errors.Wrapf(err, "[browse] run")
	}
	if fm, ok := final.(interface{ Err() error }); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
