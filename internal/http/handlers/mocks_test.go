package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/http/handlers"
	httpmw "github.com/travelstay/bookings/internal/http/middleware"
	"github.com/travelstay/bookings/internal/http/response"
	"github.com/travelstay/bookings/pkg/auth"
)

const testSecret = "handler-test-secret"

// bearerFor mints a token the way the identity provider would.
func bearerFor(t *testing.T, c domain.Caller) string {
	t.Helper()
	token, err := auth.NewAccessToken(c.ID, c.Email, c.Staff, c.Superuser, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

// Service stubs with per-test function hooks.

type stubListingService struct {
	createFn      func(ctx context.Context, caller domain.Caller, req *domain.ListingCreateReq) (*domain.Listing, error)
	getFn         func(ctx context.Context, id int64) (*domain.Listing, *domain.ListingStats, error)
	listFn        func(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error)
	updatePriceFn func(ctx context.Context, caller domain.Caller, id int64, req *domain.ListingPriceUpdateReq) (*domain.Listing, error)
}

func (s *stubListingService) Create(ctx context.Context, caller domain.Caller, req *domain.ListingCreateReq) (*domain.Listing, error) {
	return s.createFn(ctx, caller, req)
}
func (s *stubListingService) Get(ctx context.Context, id int64) (*domain.Listing, *domain.ListingStats, error) {
	return s.getFn(ctx, id)
}
func (s *stubListingService) List(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	return s.listFn(ctx, f)
}
func (s *stubListingService) UpdatePrice(ctx context.Context, caller domain.Caller, id int64, req *domain.ListingPriceUpdateReq) (*domain.Listing, error) {
	return s.updatePriceFn(ctx, caller, id, req)
}

type stubBookingService struct {
	createFn   func(ctx context.Context, caller domain.Caller, req *domain.BookingCreateReq) (*domain.Booking, error)
	getFn      func(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
	listFn     func(ctx context.Context, caller domain.Caller, f domain.BookingFilter) ([]domain.Booking, error)
	cancelFn   func(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
	confirmFn  func(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
	completeFn func(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
}

func (s *stubBookingService) Create(ctx context.Context, caller domain.Caller, req *domain.BookingCreateReq) (*domain.Booking, error) {
	return s.createFn(ctx, caller, req)
}
func (s *stubBookingService) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	return s.getFn(ctx, caller, id)
}
func (s *stubBookingService) List(ctx context.Context, caller domain.Caller, f domain.BookingFilter) ([]domain.Booking, error) {
	return s.listFn(ctx, caller, f)
}
func (s *stubBookingService) Cancel(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	return s.cancelFn(ctx, caller, id)
}
func (s *stubBookingService) Confirm(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	return s.confirmFn(ctx, caller, id)
}
func (s *stubBookingService) Complete(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	return s.completeFn(ctx, caller, id)
}

type stubReviewService struct {
	createFn func(ctx context.Context, caller domain.Caller, req *domain.ReviewCreateReq) (*domain.Review, error)
	listFn   func(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error)
}

func (s *stubReviewService) Create(ctx context.Context, caller domain.Caller, req *domain.ReviewCreateReq) (*domain.Review, error) {
	return s.createFn(ctx, caller, req)
}
func (s *stubReviewService) List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	return s.listFn(ctx, f)
}

type stubPaymentService struct {
	createFn   func(ctx context.Context, caller domain.Caller, req *domain.PaymentCreateReq) (*domain.Payment, error)
	getFn      func(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error)
	listFn     func(ctx context.Context, caller domain.Caller, f domain.PaymentFilter) ([]domain.Payment, error)
	completeFn func(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error)
}

func (s *stubPaymentService) Create(ctx context.Context, caller domain.Caller, req *domain.PaymentCreateReq) (*domain.Payment, error) {
	return s.createFn(ctx, caller, req)
}
func (s *stubPaymentService) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error) {
	return s.getFn(ctx, caller, id)
}
func (s *stubPaymentService) List(ctx context.Context, caller domain.Caller, f domain.PaymentFilter) ([]domain.Payment, error) {
	return s.listFn(ctx, caller, f)
}
func (s *stubPaymentService) Complete(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error) {
	return s.completeFn(ctx, caller, id)
}

type stubStatsService struct {
	collectFn func(ctx context.Context) (*domain.Stats, error)
}

func (s *stubStatsService) Collect(ctx context.Context) (*domain.Stats, error) {
	return s.collectFn(ctx)
}

type stubUserRepo struct {
	findFn func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findFn(ctx, id)
}

// deps bundles stubs; zero-value hooks stay nil and panic if hit, which
// fails the test loudly on unexpected calls.
type deps struct {
	listings *stubListingService
	bookings *stubBookingService
	reviews  *stubReviewService
	payments *stubPaymentService
	stats    *stubStatsService
	users    *stubUserRepo
}

func newDeps() *deps {
	return &deps{
		listings: &stubListingService{},
		bookings: &stubBookingService{},
		reviews:  &stubReviewService{},
		payments: &stubPaymentService{},
		stats:    &stubStatsService{},
		users:    &stubUserRepo{},
	}
}

// newTestRouter mirrors the production route table minus CORS and
// idempotency.
func newTestRouter(d *deps) http.Handler {
	h := handlers.New(d.listings, d.bookings, d.reviews, d.payments, d.stats, d.users)
	requireAuth := httpmw.RequireAuth(testSecret)

	r := chi.NewRouter()
	r.Route("/listings", func(r chi.Router) {
		r.Get("/", h.ListListings)
		r.Get("/{id}", h.GetListing)
		r.With(requireAuth).Post("/", h.CreateListing)
		r.With(requireAuth).Patch("/{id}", h.UpdateListingPrice)
	})
	r.Route("/bookings", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{id}", h.GetBooking)
		r.Post("/{id}/cancel", h.CancelBooking)
		r.Post("/{id}/confirm", h.ConfirmBooking)
		r.Post("/{id}/complete", h.CompleteBooking)
	})
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.ListReviews)
		r.With(requireAuth).Post("/", h.CreateReview)
	})
	r.Route("/payments", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.CreatePayment)
		r.Get("/", h.ListPayments)
		r.Get("/{id}", h.GetPayment)
		r.Post("/{id}/complete", h.CompletePayment)
	})
	r.With(requireAuth).Get("/stats", h.GetStats)
	r.With(requireAuth).Get("/users/me", h.Me)
	return r
}

var (
	guest = domain.Caller{ID: 1, Email: "guest@example.com"}
	staff = domain.Caller{ID: 9, Email: "staff@example.com", Staff: true}
)

func doRequest(t *testing.T, router http.Handler, method, path, bearer string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}
