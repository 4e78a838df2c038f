package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/http/response"
)

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req domain.BookingCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	booking, err := h.bookingService.Create(r.Context(), c, &req)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking.DTO())
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	limit, offset := parsePagination(r)
	f := domain.BookingFilter{
		OrderBy: r.URL.Query().Get("order"),
		Limit:   limit,
		Offset:  offset,
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := domain.ParseBookingStatus(raw)
		if !ok {
			response.BadRequest(w, "invalid status parameter")
			return
		}
		f.Status = &status
	}

	bookings, err := h.bookingService.List(r.Context(), c, f)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	dtos := make([]domain.BookingDTO, 0, len(bookings))
	for i := range bookings {
		dtos = append(dtos, bookings[i].DTO())
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid booking ID")
		return
	}

	booking, err := h.bookingService.Get(r.Context(), c, id)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking.DTO())
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, h.bookingService.Cancel)
}

func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, h.bookingService.Confirm)
}

func (h *Handlers) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.bookingAction(w, r, h.bookingService.Complete)
}

type bookingActionFn func(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)

func (h *Handlers) bookingAction(w http.ResponseWriter, r *http.Request, fn bookingActionFn) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid booking ID")
		return
	}

	booking, err := fn(r.Context(), c, id)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking.DTO())
}
