package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ambucrackers/shop-backend/internal/checkout"
	"github.com/ambucrackers/shop-backend/internal/domain/enquiry"
	"github.com/ambucrackers/shop-backend/internal/domain/order"
	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
)

type cartItemRequest struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	MRP      decimal.Decimal `json:"mrp"`
	Price    decimal.Decimal `json:"price"`
}

type quickCheckoutRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	Items           []cartItemRequest `json:"items"`
	CouponCode      string            `json:"coupon_code"`
}

type quickCheckoutResponse struct {
	Success  bool            `json:"success"`
	OrderID  string          `json:"order_id"`
	Total    decimal.Decimal `json:"total"`
	OrderPDF string          `json:"order_pdf,omitempty"`
	Emailed  bool            `json:"emailed"`
}

func (h *Handler) quickCheckout(w http.ResponseWriter, r *http.Request) {
	var req quickCheckoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CustomerName == "" {
		respondError(w, http.StatusBadRequest, "customer_name is required")
		return
	}

	items := make([]checkout.CartItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = checkout.CartItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			MRP:      it.MRP,
			Price:    it.Price,
		}
	}

	result, err := h.checkout.Submit(r.Context(), checkout.SubmitRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		CouponCode:      req.CouponCode,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, quickCheckoutResponse{
		Success:  true,
		OrderID:  result.Order.ID,
		Total:    result.Order.Total,
		OrderPDF: result.Order.InvoiceURI,
		Emailed:  result.Emailed,
	})
}

type applyCouponRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// applyCoupon checks a coupon code against a standalone amount. An unknown
// code is not an error at this endpoint: the response carries valid=false,
// matching the shop front's expectations.
func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "code query parameter is required")
		return
	}

	// A bodyless check is allowed; the amount defaults to zero.
	var req applyCouponRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount.IsNegative() {
		respondError(w, http.StatusBadRequest, "amount must be a non-negative number")
		return
	}

	v, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, voucher.ErrNotFound) {
			respond(w, http.StatusOK, map[string]any{
				"valid": false,
				"error": "Invalid coupon code",
			})
			return
		}
		respondDomainError(w, r, err)
		return
	}

	respond(w, http.StatusOK, v.Check(req.Amount))
}

type enquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (h *Handler) submitEnquiry(w http.ResponseWriter, r *http.Request) {
	var req enquiryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "name and message are required")
		return
	}

	err := h.checkout.SubmitEnquiry(r.Context(), &enquiry.Enquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, map[string]bool{"ok": true})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, IdentityFrom(r.Context()))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	respond(w, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status order.Status `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, o)
}
