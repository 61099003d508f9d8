package marketplace_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/b2bmarket-portal/apiclient"
	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/backendfake"
	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/internal/utils"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/jrsteele09/b2bmarket-portal/storage/storefake"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, user authapi.User) (*backendfake.Backend, *marketplace.Service) {
	t.Helper()
	backend := backendfake.New()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	store := storefake.NewFakeStore()
	access, _ := backend.IssueTokens(user)
	require.NoError(t, store.Set(storage.AccessTokenKey, access))

	client := apiclient.New(server.URL+"/api", 5*time.Second, apiclient.WithStore(store))
	return backend, marketplace.New(client)
}

func TestVendors(t *testing.T) {
	_, svc := newService(t, authapi.User{ID: 1, Email: "admin@example.com"})
	ctx := context.Background()

	vendors, err := svc.ListVendors(ctx)
	require.NoError(t, err)
	require.NotNil(t, vendors)
	require.Empty(t, vendors)

	acme, err := svc.CreateVendor(ctx, marketplace.VendorCreate{Name: "Acme"})
	require.NoError(t, err)
	require.Equal(t, "Acme", acme.Name)
	require.False(t, acme.CreatedAt.IsZero())

	got, err := svc.GetVendor(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, acme.ID, got.ID)

	renamed, err := svc.UpdateVendor(ctx, acme.ID, marketplace.VendorUpdate{Name: utils.Ptr("Acme Ltd")})
	require.NoError(t, err)
	require.Equal(t, "Acme Ltd", renamed.Name)

	require.NoError(t, svc.DeleteVendor(ctx, acme.ID))
	_, err = svc.GetVendor(ctx, acme.ID)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.ErrorIs(t, err, errors.ErrNotFound)
	require.NotErrorIs(t, err, errors.ErrUnauthorized)
}

func TestProducts(t *testing.T) {
	vendorID := int64(1)
	backend, svc := newService(t, authapi.User{ID: 2, Email: "v@example.com", VendorID: &vendorID})
	ctx := context.Background()

	acme := backend.AddVendor("Acme")
	other := backend.AddVendor("Other")
	require.Equal(t, vendorID, acme.ID)
	backend.AddProduct(marketplace.Product{Name: "Elsewhere", Price: 1, VendorID: other.ID})

	created, err := svc.CreateProduct(ctx, marketplace.ProductCreate{Name: "Widget", Price: 9.5, SKU: utils.Ptr("W-1")})
	require.NoError(t, err)
	require.Equal(t, acme.ID, created.VendorID)
	require.Equal(t, "Acme", utils.Value(created.VendorName))
	require.Nil(t, created.Description)

	all, err := svc.ListProducts(ctx, marketplace.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.ListProducts(ctx, marketplace.ProductFilter{VendorID: &acme.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Widget", mine[0].Name)

	updated, err := svc.UpdateProduct(ctx, created.ID, marketplace.ProductUpdate{Price: utils.Ptr(12.0)})
	require.NoError(t, err)
	require.Equal(t, 12.0, updated.Price)
	require.Equal(t, "Widget", updated.Name)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 12.0, got.Price)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	require.Len(t, backend.Products(), 1)
}

func TestProductCreateRequiresVendorUser(t *testing.T) {
	_, svc := newService(t, authapi.User{ID: 1, Email: "admin@example.com"})

	_, err := svc.CreateProduct(context.Background(), marketplace.ProductCreate{Name: "Widget", Price: 1})
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, "Only vendor users can create products", apiErr.Message)
}

func TestRequestBodiesAreValidated(t *testing.T) {
	vendorID := int64(1)
	backend, svc := newService(t, authapi.User{ID: 2, Email: "v@example.com", VendorID: &vendorID})
	backend.AddVendor("Acme")
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() error
		message string
	}{
		{
			name: "blank vendor name",
			call: func() error {
				_, err := svc.CreateVendor(ctx, marketplace.VendorCreate{Name: "  "})
				return err
			},
			message: "Vendor name is required",
		},
		{
			name: "negative product price",
			call: func() error {
				_, err := svc.CreateProduct(ctx, marketplace.ProductCreate{Name: "Widget", Price: -1})
				return err
			},
			message: "Price must be zero or more",
		},
		{
			name: "empty product name on update",
			call: func() error {
				_, err := svc.UpdateProduct(ctx, 1, marketplace.ProductUpdate{Name: utils.Ptr("")})
				return err
			},
			message: "Product name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr, ok := apiclient.AsAPIError(tt.call())
			require.True(t, ok)
			require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
			require.Equal(t, tt.message, apiErr.Message)
		})
	}
	require.Empty(t, backend.Products())
}

func TestHealth(t *testing.T) {
	_, svc := newService(t, authapi.User{ID: 1})

	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	require.True(t, health.IsHealthy())
	require.Equal(t, "ok", health.Database)

	ping, err := svc.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pong", ping.Status)

	require.False(t, marketplace.Health{Status: "degraded"}.IsHealthy())
}

func TestTimestamp(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-03-01T10:20:30Z"`:           time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2024-03-01T10:20:30.123456"`:     time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC),
		`"2024-03-01 10:20:30"`:            time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2024-03-01T12:20:30+02:00"`:      time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2024-03-01T10:20:30.5000+00:00"`: time.Date(2024, 3, 1, 10, 20, 30, 500000000, time.UTC),
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			var ts marketplace.Timestamp
			require.NoError(t, json.Unmarshal([]byte(raw), &ts))
			require.True(t, want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts marketplace.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	require.True(t, ts.IsZero())
	require.Equal(t, "", ts.String())
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
