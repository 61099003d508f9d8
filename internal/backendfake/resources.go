package backendfake

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/b2bmarket-portal/authapi"
	"github.com/jrsteele09/b2bmarket-portal/internal/validation"
	"github.com/jrsteele09/b2bmarket-portal/marketplace"
)

var (
	vendorMessages = validation.Messages{
		"name.required": "Vendor name is required",
		"name.min":      "Vendor name is required",
	}
	productMessages = validation.Messages{
		"name.required": "Product name is required",
		"name.min":      "Product name is required",
		"price.gte":     "Price must be zero or more",
	}
)

func decodeBody(w http.ResponseWriter, r *http.Request, body any) bool {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "detail", "Invalid request body")
		return false
	}
	return true
}

// validBody answers 422 with the first failing field of body
func validBody(w http.ResponseWriter, body any, messages validation.Messages) bool {
	if err := validation.Struct(body, messages); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "detail", err.Error())
		return false
	}
	return true
}

func withUser(ctx context.Context, user authapi.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func userFrom(ctx context.Context) authapi.User {
	user, _ := ctx.Value(userKey{}).(authapi.User)
	return user
}

func (b *Backend) handleListVendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Vendors())
}

func (b *Backend) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.vendorIndexLocked(pathID(r))
	if idx < 0 {
		writeError(w, http.StatusNotFound, "detail", "Vendor not found")
		return
	}
	writeJSON(w, http.StatusOK, b.vendors[idx])
}

func (b *Backend) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var body marketplace.VendorCreate
	if !decodeBody(w, r, &body) {
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if !validBody(w, body, vendorMessages) {
		return
	}
	writeJSON(w, http.StatusCreated, b.AddVendor(body.Name))
}

func (b *Backend) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	var body marketplace.VendorUpdate
	if !decodeBody(w, r, &body) || !validBody(w, body, vendorMessages) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.vendorIndexLocked(pathID(r))
	if idx < 0 {
		writeError(w, http.StatusNotFound, "detail", "Vendor not found")
		return
	}
	if body.Name != nil {
		b.vendors[idx].Name = *body.Name
	}
	writeJSON(w, http.StatusOK, b.vendors[idx])
}

func (b *Backend) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.vendorIndexLocked(pathID(r))
	if idx < 0 {
		writeError(w, http.StatusNotFound, "detail", "Vendor not found")
		return
	}
	b.vendors = append(b.vendors[:idx], b.vendors[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := b.Products()

	raw := r.URL.Query().Get("vendor_id")
	if raw == "" {
		writeJSON(w, http.StatusOK, products)
		return
	}
	vendorID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "detail", "vendor_id must be an integer")
		return
	}
	filtered := []marketplace.Product{}
	for _, p := range products {
		if p.VendorID == vendorID {
			filtered = append(filtered, p)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (b *Backend) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.productIndexLocked(pathID(r))
	if idx < 0 {
		writeError(w, http.StatusNotFound, "detail", "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, b.products[idx])
}

// handleCreateProduct files the product under the caller's vendor
func (b *Backend) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if !user.IsVendor() {
		writeError(w, http.StatusForbidden, "detail", "Only vendor users can create products")
		return
	}

	var body marketplace.ProductCreate
	if !decodeBody(w, r, &body) {
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if !validBody(w, body, productMessages) {
		return
	}

	product := b.AddProduct(marketplace.Product{
		Name:        body.Name,
		SKU:         body.SKU,
		Description: body.Description,
		Price:       body.Price,
		VendorID:    *user.VendorID,
	})
	writeJSON(w, http.StatusCreated, product)
}

func (b *Backend) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var body marketplace.ProductUpdate
	if !decodeBody(w, r, &body) || !validBody(w, body, productMessages) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.productIndexLocked(pathID(r))
	if idx < 0 {
		writeError(w, http.StatusNotFound, "detail", "Product not found")
		return
	}
	p := &b.products[idx]
	if body.Name != nil {
		p.Name = *body.Name
	}
	if body.SKU != nil {
		p.SKU = body.SKU
	}
	if body.Description != nil {
		p.Description = body.Description
	}
	if body.Price != nil {
		p.Price = *body.Price
	}
	if body.VendorID != nil {
		p.VendorID = *body.VendorID
		p.VendorName = b.vendorNameLocked(p.VendorID)
	}
	writeJSON(w, http.StatusOK, *p)
}

func (b *Backend) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.productIndexLocked(pathID(r))
	if idx < 0 {
		writeError(w, http.StatusNotFound, "detail", "Product not found")
		return
	}
	b.products = append(b.products[:idx], b.products[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) vendorIndexLocked(id int64) int {
	for i, v := range b.vendors {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) productIndexLocked(id int64) int {
	for i, p := range b.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
