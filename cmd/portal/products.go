package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/internal/utils"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"github.com/jrsteele09/b2bmarket-portal/pages"
)

func (a *app) products(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.Invalid("usage: portal products list|get|create|update|delete")
	}
	user, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	page := pages.NewProductsPage(a.market, user)
	sub, rest := args[0], args[1:]
	fs := a.flagSet("products " + sub)

	switch sub {
	case "list":
		search := fs.String("search", "", "only show products matching this text")
		vendorID := fs.Int64("vendor", 0, "only list products of this vendor id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *vendorID != 0 {
			page.SetVendorFilter(vendorID)
		}
		if err := page.Load(ctx); err != nil {
			return err
		}
		page.Table().SetQuery(*search)
		fmt.Fprint(a.out, page.View())
		return nil

	case "get":
		id := fs.Int64("id", 0, "product id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		product, err := page.Get(ctx, *id)
		if err != nil {
			return err
		}
		printProduct(a, product)
		return nil

	case "create":
		var form pages.ProductForm
		fs.StringVar(&form.Name, "name", "", "product name")
		fs.StringVar(&form.Price, "price", "", "price, zero or more")
		fs.StringVar(&form.SKU, "sku", "", "stock keeping unit")
		fs.StringVar(&form.Description, "description", "", "description")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if !page.CanCreate() {
			return errors.Invalid("only vendor users can create products")
		}
		product, err := page.Create(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created product #%d\n", product.ID)
		return nil

	case "update":
		id := fs.Int64("id", 0, "product id")
		fs.String("name", "", "new name")
		fs.String("price", "", "new price")
		fs.String("sku", "", "new stock keeping unit")
		fs.String("description", "", "new description")
		fs.Int64("vendor", 0, "move to this vendor id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		body, err := productUpdate(fs)
		if err != nil {
			return err
		}
		product, err := page.Update(ctx, *id, body)
		if err != nil {
			return err
		}
		printProduct(a, product)
		return nil

	case "delete":
		id := fs.Int64("id", 0, "product id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := page.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted product #%d\n", *id)
		return nil

	default:
		return errors.Wrapf(errors.ErrUnsupported, "unknown products command %q", sub)
	}
}

// productUpdate builds a PATCH body from the flags given on the command line,
// so fields that were not passed are left alone.
func productUpdate(fs *flag.FlagSet) (marketplace.ProductUpdate, error) {
	var body marketplace.ProductUpdate
	var err error
	fs.Visit(func(f *flag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "name":
			body.Name = utils.Ptr(value)
		case "sku":
			body.SKU = utils.Ptr(value)
		case "description":
			body.Description = utils.Ptr(value)
		case "price":
			price, parseErr := strconv.ParseFloat(value, 64)
			if parseErr != nil {
				err = errors.Invalid("Price must be a number")
				return
			}
			body.Price = &price
		case "vendor":
			vendorID, parseErr := strconv.ParseInt(value, 10, 64)
			if parseErr != nil {
				err = errors.Invalid("vendor must be an id")
				return
			}
			body.VendorID = &vendorID
		}
	})
	return body, err
}

func printProduct(a *app, p *marketplace.Product) {
	fmt.Fprintf(a.out, "ID:          %d\n", p.ID)
	fmt.Fprintf(a.out, "Name:        %s\n", p.Name)
	fmt.Fprintf(a.out, "SKU:         %s\n", utils.Value(p.SKU))
	fmt.Fprintf(a.out, "Description: %s\n", utils.Value(p.Description))
	fmt.Fprintf(a.out, "Price:       %s\n", pages.FormatPrice(p.Price))
	fmt.Fprintf(a.out, "Vendor:      %s (#%d)\n", utils.Value(p.VendorName), p.VendorID)
	fmt.Fprintf(a.out, "Created:     %s\n", p.CreatedAt)
}
