package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/http/middleware"
	"github.com/travelstay/bookings/internal/http/response"
	"github.com/travelstay/bookings/internal/repository"
	"github.com/travelstay/bookings/internal/service"
)

type Handlers struct {
	listingService service.ListingService
	bookingService service.BookingService
	reviewService  service.ReviewService
	paymentService service.PaymentService
	statsService   service.StatsService
	userRepo       repository.UserRepository
}

func New(
	listingService service.ListingService,
	bookingService service.BookingService,
	reviewService service.ReviewService,
	paymentService service.PaymentService,
	statsService service.StatsService,
	userRepo repository.UserRepository,
) *Handlers {
	return &Handlers{
		listingService: listingService,
		bookingService: bookingService,
		reviewService:  reviewService,
		paymentService: paymentService,
		statsService:   statsService,
		userRepo:       userRepo,
	}
}

func caller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	c, ok := middleware.CallerFrom(r)
	if !ok {
		response.Unauthorized(w, "authentication required")
	}
	return c, ok
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

func queryInt64(r *http.Request, name string) *int64 {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

func queryInt(r *http.Request, name string) *int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func queryBool(r *http.Request, name string) *bool {
	if v := r.URL.Query().Get(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}
