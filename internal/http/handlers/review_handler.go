package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/http/response"
)

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req domain.ReviewCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	review, err := h.reviewService.Create(r.Context(), c, &req)
	if err != nil {
		response.FromDomain(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// ListReviews is public.
func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	f := domain.ReviewFilter{
		ListingID: queryInt64(r, "listing_id"),
		Rating:    queryInt(r, "rating"),
		OrderBy:   r.URL.Query().Get("order"),
		Limit:     limit,
		Offset:    offset,
	}

	reviews, err := h.reviewService.List(r.Context(), f)
	if err != nil {
		response.FromDomain(w, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}
