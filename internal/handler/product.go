package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambucrackers/shop-backend/internal/domain/product"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	respond(w, http.StatusOK, products)
}

type productRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	MRP         *decimal.Decimal `json:"mrp"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
	IsActive    *bool            `json:"is_active"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price == nil || req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "price must be a non-negative number")
		return
	}
	if req.MRP != nil && req.MRP.IsNegative() {
		respondError(w, http.StatusBadRequest, "mrp must be a non-negative number")
		return
	}

	p := product.Product{
		ID:       uuid.New().String(),
		Name:     *req.Name,
		Price:    *req.Price,
		IsActive: true,
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.MRP != nil {
		p.MRP = *req.MRP
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := h.products.Create(r.Context(), &p); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if (req.Price != nil && req.Price.IsNegative()) || (req.MRP != nil && req.MRP.IsNegative()) {
		respondError(w, http.StatusBadRequest, "price and mrp must be non-negative numbers")
		return
	}

	patch := product.Patch{
		Name:        req.Name,
		Description: req.Description,
		MRP:         req.MRP,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}
	if patch.IsEmpty() {
		respondError(w, http.StatusBadRequest, "no updatable fields in request")
		return
	}

	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"deleted": true})
}
