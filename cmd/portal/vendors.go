package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"github.com/jrsteele09/b2bmarket-portal/pages"
)

func (a *app) vendors(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.Invalid("usage: portal vendors list|get|create|update|delete")
	}
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}

	page := pages.NewVendorsPage(a.market)
	sub, rest := args[0], args[1:]
	fs := a.flagSet("vendors " + sub)

	switch sub {
	case "list":
		search := fs.String("search", "", "only show vendors matching this text")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := page.Load(ctx); err != nil {
			return err
		}
		page.Table().SetQuery(*search)
		fmt.Fprint(a.out, page.View())
		return nil

	case "get":
		id := fs.Int64("id", 0, "vendor id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		vendor, err := page.Get(ctx, *id)
		if err != nil {
			return err
		}
		printVendor(a, vendor)
		return nil

	case "create":
		name := fs.String("name", "", "vendor name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		vendor, err := page.Create(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created vendor #%d\n", vendor.ID)
		return nil

	case "update":
		id := fs.Int64("id", 0, "vendor id")
		name := fs.String("name", "", "new vendor name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		vendor, err := page.Rename(ctx, *id, *name)
		if err != nil {
			return err
		}
		printVendor(a, vendor)
		return nil

	case "delete":
		id := fs.Int64("id", 0, "vendor id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := page.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted vendor #%d\n", *id)
		return nil

	default:
		return errors.Wrapf(errors.ErrUnsupported, "unknown vendors command %q", sub)
	}
}

func printVendor(a *app, v *marketplace.Vendor) {
	fmt.Fprintf(a.out, "ID:      %d\n", v.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", v.Name)
	fmt.Fprintf(a.out, "Created: %s\n", v.CreatedAt)
}
