package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
)

func (h *Handler) listVouchers(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.vouchers.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if vouchers == nil {
		vouchers = []voucher.Voucher{}
	}
	respond(w, http.StatusOK, vouchers)
}

type createVoucherRequest struct {
	Code          string          `json:"code"`
	Title         string          `json:"title"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	var req createVoucherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	v := voucher.Voucher{
		Code:          voucher.NormalizeCode(req.Code),
		Title:         req.Title,
		DiscountType:  voucher.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.vouchers.Create(r.Context(), &v); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, v)
}

func (h *Handler) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	code := voucher.NormalizeCode(chi.URLParam(r, "code"))
	if err := h.vouchers.Delete(r.Context(), code); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"deleted": true})
}
