package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/travelstay/bookings/internal/domain"
)

// In-memory repository fakes mirroring the postgres semantics the
// services rely on.

type memListingRepo struct {
	mu       sync.Mutex
	nextID   int64
	listings map[int64]*domain.Listing
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{nextID: 1, listings: make(map[int64]*domain.Listing)}
}

func (m *memListingRepo) Create(_ context.Context, l *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextID
	m.nextID++
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memListingRepo) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memListingRepo) List(_ context.Context, _ domain.ListingFilter) ([]domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (m *memListingRepo) UpdatePrice(_ context.Context, id, pricePerNight int64) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	l.PricePerNight = pricePerNight
	l.UpdatedAt = time.Now()
	cp := *l
	return &cp, nil
}

type memBookingRepo struct {
	mu         sync.Mutex
	nextID     int64
	bookings   map[int64]*domain.Booking
	createErrs []error // popped before each Create attempt
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{nextID: 1, bookings: make(map[int64]*domain.Booking)}
}

func (m *memBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		return err
	}

	for _, other := range m.bookings {
		if other.ListingID != b.ListingID || !other.IsActive() {
			continue
		}
		if b.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(b.CheckOut) {
			return domain.ErrDateConflict
		}
	}

	b.ID = m.nextID
	m.nextID++
	b.Status = domain.BookingPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) List(_ context.Context, scope domain.Scope, f domain.BookingFilter) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if !scope.Allows(b.GuestID) {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBookingRepo) UpdateStatus(_ context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			b.UpdatedAt = time.Now()
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memBookingRepo) HasCompletedBooking(_ context.Context, listingID, guestID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ListingID == listingID && b.GuestID == guestID && b.Status == domain.BookingCompleted {
			return true, nil
		}
	}
	return false, nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	nextID  int64
	reviews map[int64]*domain.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{nextID: 1, reviews: make(map[int64]*domain.Review)}
}

func (m *memReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rv.ID = m.nextID
	m.nextID++
	rv.CreatedAt = time.Now()
	rv.UpdatedAt = rv.CreatedAt
	cp := *rv
	m.reviews[rv.ID] = &cp
	return nil
}

func (m *memReviewRepo) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rv, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *rv
	return &cp, nil
}

func (m *memReviewRepo) List(_ context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, rv := range m.reviews {
		if f.ListingID != nil && rv.ListingID != *f.ListingID {
			continue
		}
		if f.Rating != nil && rv.Rating != *f.Rating {
			continue
		}
		out = append(out, *rv)
	}
	return out, nil
}

func (m *memReviewRepo) Exists(_ context.Context, listingID, reviewerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rv := range m.reviews {
		if rv.ListingID == listingID && rv.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReviewRepo) AggregateForListing(_ context.Context, listingID int64) (*domain.ListingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, count int64
	for _, rv := range m.reviews {
		if rv.ListingID == listingID {
			sum += int64(rv.Rating)
			count++
		}
	}
	stats := &domain.ListingStats{TotalReviews: count}
	if count > 0 {
		stats.AverageRating = float64(sum) / float64(count)
	}
	return stats, nil
}

type memPaymentRepo struct {
	mu       sync.Mutex
	nextID   int64
	payments map[int64]*domain.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{nextID: 1, payments: make(map[int64]*domain.Payment)}
}

func (m *memPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	p.Status = domain.PaymentPending
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) List(_ context.Context, _ domain.Scope, _ domain.PaymentFilter) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Payment
	for _, p := range m.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPaymentRepo) Complete(_ context.Context, id int64, transactionRef string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	p.Status = domain.PaymentCompleted
	p.TransactionRef = &transactionRef
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

type memUserRepo struct {
	users map[int64]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	m := &memUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// stubBus records published events; Publish can be forced to fail.
type stubBus struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	subject string
	data    interface{}
}

func (s *stubBus) Publish(_ context.Context, subject string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, publishedEvent{subject: subject, data: data})
	return nil
}

func (s *stubBus) Close() error { return nil }

func (s *stubBus) count(subject string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.published {
		if e.subject == subject {
			n++
		}
	}
	return n
}
