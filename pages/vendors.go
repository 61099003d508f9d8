package pages

import (
	"context"
	"strings"

	"github.com/jrsteele09/b2bmarket-portal/internal/validation"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"github.com/jrsteele09/b2bmarket-portal/table"
)

type VendorsAPI interface {
	ListVendors(ctx context.Context) ([]marketplace.Vendor, error)
	GetVendor(ctx context.Context, id int64) (*marketplace.Vendor, error)
	CreateVendor(ctx context.Context, body marketplace.VendorCreate) (*marketplace.Vendor, error)
	UpdateVendor(ctx context.Context, id int64, body marketplace.VendorUpdate) (*marketplace.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) error
}

var vendorMessages = validation.Messages{
	"name.required": "Vendor name is required",
	"name.min":      "Vendor name is required",
}

func VendorColumns() []table.Column[marketplace.Vendor] {
	return []table.Column[marketplace.Vendor]{
		{Key: "id", Header: "ID", Value: func(v marketplace.Vendor) any { return v.ID }},
		{Key: "name", Header: "Name", Value: func(v marketplace.Vendor) any { return v.Name }},
		{Key: "created_at", Header: "Created", Value: func(v marketplace.Vendor) any { return v.CreatedAt }},
	}
}

type VendorsPage struct {
	status
	api   VendorsAPI
	table *table.Table[marketplace.Vendor]
}

func NewVendorsPage(api VendorsAPI, opts ...table.Option) *VendorsPage {
	opts = append([]table.Option{table.WithEmptyMessage("No vendors yet.")}, opts...)
	return &VendorsPage{
		api:   api,
		table: table.New(VendorColumns(), opts...),
	}
}

func (p *VendorsPage) Table() *table.Table[marketplace.Vendor] {
	return p.table
}

func (p *VendorsPage) Load(ctx context.Context) error {
	p.loading = true
	p.err = ""
	p.table.SetLoading(true)
	defer func() {
		p.loading = false
		p.table.SetLoading(false)
	}()

	vendors, err := p.api.ListVendors(ctx)
	if err != nil {
		return p.fail(err, "Failed to load vendors")
	}
	p.table.SetRows(vendors)
	return nil
}

func (p *VendorsPage) Get(ctx context.Context, id int64) (*marketplace.Vendor, error) {
	p.loading = true
	p.err = ""
	defer func() { p.loading = false }()

	vendor, err := p.api.GetVendor(ctx, id)
	if err != nil {
		return nil, p.fail(err, "Failed to load vendor")
	}
	return vendor, nil
}

// Create adds a vendor named name, trimmed, and reloads the list. A blank name
// is rejected without calling the backend.
func (p *VendorsPage) Create(ctx context.Context, name string) (*marketplace.Vendor, error) {
	body := marketplace.VendorCreate{Name: strings.TrimSpace(name)}
	if err := validation.Struct(body, vendorMessages); err != nil {
		return nil, err
	}

	vendor, err := p.submit(func() (*marketplace.Vendor, error) {
		return p.api.CreateVendor(ctx, body)
	}, "Failed to create vendor")
	if err != nil {
		return nil, err
	}
	return vendor, p.Load(ctx)
}

func (p *VendorsPage) Rename(ctx context.Context, id int64, name string) (*marketplace.Vendor, error) {
	name = strings.TrimSpace(name)
	body := marketplace.VendorUpdate{Name: &name}
	if err := validation.Struct(body, vendorMessages); err != nil {
		return nil, err
	}

	vendor, err := p.submit(func() (*marketplace.Vendor, error) {
		return p.api.UpdateVendor(ctx, id, body)
	}, "Failed to update vendor")
	if err != nil {
		return nil, err
	}
	return vendor, p.Load(ctx)
}

func (p *VendorsPage) Delete(ctx context.Context, id int64) error {
	_, err := p.submit(func() (*marketplace.Vendor, error) {
		return nil, p.api.DeleteVendor(ctx, id)
	}, "Failed to delete vendor")
	if err != nil {
		return err
	}
	return p.Load(ctx)
}

func (p *VendorsPage) submit(call func() (*marketplace.Vendor, error), fallback string) (*marketplace.Vendor, error) {
	p.submitting = true
	p.err = ""
	defer func() { p.submitting = false }()

	vendor, err := call()
	if err != nil {
		return nil, p.fail(err, fallback)
	}
	return vendor, nil
}

func (p *VendorsPage) View() string {
	view := p.header("Vendors")
	if p.err != "" {
		return view
	}
	return view + p.table.View()
}
