package marketplace

import (
	"context"
	"fmt"
)

const routeVendors = "/vendors/"

type Vendor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
}

type VendorCreate struct {
	Name string `json:"name" validate:"required"`
}

type VendorUpdate struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`
}

func vendorPath(id int64) string {
	return fmt.Sprintf("/vendors/%d", id)
}

func (s *Service) ListVendors(ctx context.Context) ([]Vendor, error) {
	vendors := []Vendor{}
	if err := s.client.Get(ctx, routeVendors, nil, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (s *Service) GetVendor(ctx context.Context, id int64) (*Vendor, error) {
	var vendor Vendor
	if err := s.client.Get(ctx, vendorPath(id), nil, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *Service) CreateVendor(ctx context.Context, body VendorCreate) (*Vendor, error) {
	var vendor Vendor
	if err := s.client.Post(ctx, routeVendors, body, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *Service) UpdateVendor(ctx context.Context, id int64, body VendorUpdate) (*Vendor, error) {
	var vendor Vendor
	if err := s.client.Patch(ctx, vendorPath(id), body, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (s *Service) DeleteVendor(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, vendorPath(id))
}
