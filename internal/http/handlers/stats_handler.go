package handlers

import (
	"net/http"

	"github.com/travelstay/bookings/internal/http/response"
)

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	stats, err := h.statsService.Collect(r.Context())
	if err != nil {
		response.FromDomain(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Me echoes the caller's user reference.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	user, err := h.userRepo.FindByID(r.Context(), c.ID)
	if err != nil {
		response.InternalError(w, "failed to load user")
		return
	}
	if user == nil {
		response.NotFound(w, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
