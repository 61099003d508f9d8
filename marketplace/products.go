package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const routeProducts = "/products/"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	SKU         *string   `json:"sku,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	VendorID    int64     `json:"vendor_id"`
	VendorName  *string   `json:"vendor_name,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

type ProductCreate struct {
	Name        string  `json:"name" validate:"required"`
	SKU         *string `json:"sku,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// ProductUpdate carries only the fields to change. A present name must not be
// empty.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	SKU         *string  `json:"sku,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	VendorID    *int64   `json:"vendor_id,omitempty"`
}

// ProductFilter narrows a product listing, a nil VendorID lists every product
type ProductFilter struct {
	VendorID *int64
}

func (f ProductFilter) query() url.Values {
	if f.VendorID == nil {
		return nil
	}
	return url.Values{"vendor_id": []string{strconv.FormatInt(*f.VendorID, 10)}}
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	products := []Product{}
	if err := s.client.Get(ctx, routeProducts, filter.query(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := s.client.Get(ctx, productPath(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) CreateProduct(ctx context.Context, body ProductCreate) (*Product, error) {
	var product Product
	if err := s.client.Post(ctx, routeProducts, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, body ProductUpdate) (*Product, error) {
	var product Product
	if err := s.client.Patch(ctx, productPath(id), body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, productPath(id))
}
