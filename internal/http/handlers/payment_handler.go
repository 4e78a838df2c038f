package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/http/response"
)

func (h *Handlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req domain.PaymentCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	payment, err := h.paymentService.Create(r.Context(), c, &req)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	f := domain.PaymentFilter{
		OrderBy: r.URL.Query().Get("order"),
		Limit:   limit,
		Offset:  offset,
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := domain.ParsePaymentStatus(raw)
		if !ok {
			response.BadRequest(w, "invalid status parameter")
			return
		}
		f.Status = &status
	}
	if raw := r.URL.Query().Get("payment_method"); raw != "" {
		method, ok := domain.ParsePaymentMethod(raw)
		if !ok {
			response.BadRequest(w, "invalid payment_method parameter")
			return
		}
		f.Method = &method
	}

	payments, err := h.paymentService.List(r.Context(), c, f)
	if err != nil {
		response.FromDomain(w, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid payment ID")
		return
	}

	payment, err := h.paymentService.Get(r.Context(), c, id)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

// CompletePayment simulates settlement: it stamps a transaction
// reference and marks the payment completed.
func (h *Handlers) CompletePayment(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid payment ID")
		return
	}

	payment, err := h.paymentService.Complete(r.Context(), c, id)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}
