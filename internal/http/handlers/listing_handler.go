package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/http/response"
)

// ListListings is public; supports filtering, substring search and
// ordering.
func (h *Handlers) ListListings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	f := domain.ListingFilter{
		Location:  r.URL.Query().Get("location"),
		MinPrice:  queryInt64(r, "min_price"),
		MaxPrice:  queryInt64(r, "max_price"),
		Available: queryBool(r, "is_available"),
		Search:    r.URL.Query().Get("search"),
		OrderBy:   r.URL.Query().Get("order"),
		Limit:     limit,
		Offset:    offset,
	}

	listings, err := h.listingService.List(r.Context(), f)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	dtos := make([]domain.ListingDTO, 0, len(listings))
	for i := range listings {
		dtos = append(dtos, listings[i].DTO())
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid listing ID")
		return
	}

	listing, stats, err := h.listingService.Get(r.Context(), id)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listing.DTOWithStats(stats))
}

// UpdateListingPrice changes the nightly rate; host or staff only.
func (h *Handlers) UpdateListingPrice(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid listing ID")
		return
	}

	var req domain.ListingPriceUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	listing, err := h.listingService.UpdatePrice(r.Context(), c, id, &req)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listing.DTO())
}

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req domain.ListingCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	listing, err := h.listingService.Create(r.Context(), c, &req)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, listing.DTO())
}
