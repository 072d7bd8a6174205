package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ambucrackers/shop-backend/internal/blob"
	"github.com/ambucrackers/shop-backend/internal/checkout"
	"github.com/ambucrackers/shop-backend/internal/domain/order"
	"github.com/ambucrackers/shop-backend/internal/domain/product"
	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
	"github.com/ambucrackers/shop-backend/internal/pricing"
)

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, errorResponse{Error: msg})
}

// respondDomainError maps known domain errors to their status class and
// everything else to an opaque 500. Internal detail is logged, not leaked.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		cartErr    *pricing.InvalidCartError
		statusErr  *order.InvalidStatusError
		notFoundOK = func(msg string) {
			respondError(w, http.StatusNotFound, msg)
		}
	)

	switch {
	case errors.As(err, &cartErr):
		respondError(w, http.StatusBadRequest, cartErr.Error())
	case errors.As(err, &statusErr):
		respondError(w, http.StatusBadRequest, statusErr.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, checkout.ErrEmptyCart.Error())
	case errors.Is(err, voucher.ErrNotFound):
		notFoundOK("coupon not found")
	case errors.Is(err, voucher.ErrExists):
		respondError(w, http.StatusConflict, "voucher already exists")
	case errors.Is(err, order.ErrNotFound):
		notFoundOK("order not found")
	case errors.Is(err, order.ErrDuplicate):
		respondError(w, http.StatusConflict, "duplicate order id")
	case errors.Is(err, product.ErrNotFound):
		notFoundOK("product not found")
	case errors.Is(err, blob.ErrNotFound):
		notFoundOK("file not found")
	case errors.Is(err, blob.ErrInvalidKey):
		respondError(w, http.StatusBadRequest, "invalid file key")
	default:
		zctx.From(r.Context()).Error("Unhandled error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
