package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/internal/validation"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"github.com/jrsteele09/b2bmarket-portal/table"
)

const (
	vendorEmptyMessage = "No products yet. Click Add Product to create one."
	emptyMessage       = "No products yet."
)

type ProductsAPI interface {
	ListProducts(ctx context.Context, filter marketplace.ProductFilter) ([]marketplace.Product, error)
	GetProduct(ctx context.Context, id int64) (*marketplace.Product, error)
	CreateProduct(ctx context.Context, body marketplace.ProductCreate) (*marketplace.Product, error)
	UpdateProduct(ctx context.Context, id int64, body marketplace.ProductUpdate) (*marketplace.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

func ProductColumns() []table.Column[marketplace.Product] {
	return []table.Column[marketplace.Product]{
		{Key: "id", Header: "ID", Value: func(p marketplace.Product) any { return p.ID }},
		{Key: "name", Header: "Name", Value: func(p marketplace.Product) any { return p.Name }},
		{
			Key:    "sku",
			Header: "SKU",
			Value:  func(p marketplace.Product) any { return p.SKU },
			Render: func(p marketplace.Product) string { return orDash(p.SKU) },
		},
		{
			Key:    "description",
			Header: "Description",
			Value:  func(p marketplace.Product) any { return p.Description },
			Render: func(p marketplace.Product) string { return orDash(p.Description) },
		},
		{
			Key:    "price",
			Header: "Price",
			Value:  func(p marketplace.Product) any { return p.Price },
			Render: func(p marketplace.Product) string { return FormatPrice(p.Price) },
		},
		{
			Key:    "vendor_name",
			Header: "Vendor",
			Value:  func(p marketplace.Product) any { return p.VendorName },
			Render: func(p marketplace.Product) string { return orDash(p.VendorName) },
		},
		{Key: "created_at", Header: "Created", Value: func(p marketplace.Product) any { return p.CreatedAt }},
	}
}

func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// ProductEmptyMessage invites vendor users to add the first product
func ProductEmptyMessage(user *authapi.User) string {
	if user.IsVendor() {
		return vendorEmptyMessage
	}
	return emptyMessage
}

// ProductForm is the raw input of the add product form
type ProductForm struct {
	Name        string
	SKU         string
	Description string
	Price       string
}

var productMessages = validation.Messages{
	"name.required": "Product name is required",
	"name.min":      "Product name is required",
	"price.gte":     "Price must be zero or more",
}

// Validate checks the required fields and builds the create request. Name
// must be non-blank and price a number of zero or more; blank optional fields
// are left out.
func (f ProductForm) Validate() (marketplace.ProductCreate, error) {
	price, parseErr := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	body := marketplace.ProductCreate{
		Name:        strings.TrimSpace(f.Name),
		SKU:         optional(f.SKU),
		Description: optional(f.Description),
		Price:       price,
	}
	if err := validation.Struct(body, productMessages); err != nil {
		return marketplace.ProductCreate{}, err
	}
	if parseErr != nil {
		return marketplace.ProductCreate{}, errors.Invalid("Price must be a number")
	}
	return body, nil
}

type ProductsPage struct {
	status
	api    ProductsAPI
	user   *authapi.User
	filter marketplace.ProductFilter
	table  *table.Table[marketplace.Product]
}

func NewProductsPage(api ProductsAPI, user *authapi.User, opts ...table.Option) *ProductsPage {
	opts = append([]table.Option{table.WithEmptyMessage(ProductEmptyMessage(user))}, opts...)
	return &ProductsPage{
		api:   api,
		user:  user,
		table: table.New(ProductColumns(), opts...),
	}
}

func (p *ProductsPage) Table() *table.Table[marketplace.Product] {
	return p.table
}

// CanCreate reports whether the signed in user may add products
func (p *ProductsPage) CanCreate() bool {
	return p.user.IsVendor()
}

// SetVendorFilter limits the list to one vendor, nil lists every product
func (p *ProductsPage) SetVendorFilter(vendorID *int64) {
	p.filter.VendorID = vendorID
}

func (p *ProductsPage) Load(ctx context.Context) error {
	p.loading = true
	p.err = ""
	p.table.SetLoading(true)
	defer func() {
		p.loading = false
		p.table.SetLoading(false)
	}()

	products, err := p.api.ListProducts(ctx, p.filter)
	if err != nil {
		return p.fail(err, "Failed to load products")
	}
	p.table.SetRows(products)
	return nil
}

func (p *ProductsPage) Get(ctx context.Context, id int64) (*marketplace.Product, error) {
	p.loading = true
	p.err = ""
	defer func() { p.loading = false }()

	product, err := p.api.GetProduct(ctx, id)
	if err != nil {
		return nil, p.fail(err, "Failed to load product")
	}
	return product, nil
}

// Create validates form, creates the product and reloads the list. Invalid
// input never reaches the backend.
func (p *ProductsPage) Create(ctx context.Context, form ProductForm) (*marketplace.Product, error) {
	body, err := form.Validate()
	if err != nil {
		return nil, err
	}

	product, err := p.submit(func() (*marketplace.Product, error) {
		return p.api.CreateProduct(ctx, body)
	}, "Failed to create product")
	if err != nil {
		return nil, err
	}
	return product, p.Load(ctx)
}

func (p *ProductsPage) Update(ctx context.Context, id int64, body marketplace.ProductUpdate) (*marketplace.Product, error) {
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		body.Name = &name
	}
	if err := validation.Struct(body, productMessages); err != nil {
		return nil, err
	}

	product, err := p.submit(func() (*marketplace.Product, error) {
		return p.api.UpdateProduct(ctx, id, body)
	}, "Failed to update product")
	if err != nil {
		return nil, err
	}
	return product, p.Load(ctx)
}

func (p *ProductsPage) Delete(ctx context.Context, id int64) error {
	_, err := p.submit(func() (*marketplace.Product, error) {
		return nil, p.api.DeleteProduct(ctx, id)
	}, "Failed to delete product")
	if err != nil {
		return err
	}
	return p.Load(ctx)
}

func (p *ProductsPage) submit(call func() (*marketplace.Product, error), fallback string) (*marketplace.Product, error) {
	p.submitting = true
	p.err = ""
	defer func() { p.submitting = false }()

	product, err := call()
	if err != nil {
		return nil, p.fail(err, fallback)
	}
	return product, nil
}

func (p *ProductsPage) View() string {
	view := p.header("Products")
	if p.err != "" {
		return view
	}
	return view + p.table.View()
}
