package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/repository"
	"github.com/travelstay/bookings/pkg/events"
	"github.com/travelstay/bookings/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, caller domain.Caller, req *domain.BookingCreateReq) (*domain.Booking, error)
	Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
	List(ctx context.Context, caller domain.Caller, f domain.BookingFilter) ([]domain.Booking, error)
	Cancel(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
	Confirm(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
	Complete(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	eventBus    events.Publisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		eventBus:    eventBus,
	}
}

// createRetries bounds retries on store contention before surfacing a
// date conflict to the caller.
const createRetries = 3

func (s *bookingService) Create(ctx context.Context, caller domain.Caller, req *domain.BookingCreateReq) (*domain.Booking, error) {
	checkIn, err := ParseDate("check_in", req.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := ParseDate("check_out", req.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := ValidateRange(checkIn, checkOut, time.Now()); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing == nil {
		return nil, domain.ErrNotFound
	}

	// Price is recomputed server-side and frozen; client input is never
	// trusted for it.
	booking := &domain.Booking{
		ListingID:  listing.ID,
		GuestID:    caller.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: ComputeTotal(listing.PricePerNight, checkIn, checkOut),
	}

	for attempt := 1; ; attempt++ {
		err = s.bookingRepo.Create(ctx, booking)
		if err == nil || !retryableTxErr(err) || attempt >= createRetries {
			break
		}
		logger.WarnContext(ctx, "Retrying booking create after store contention",
			"listing_id", listing.ID, "attempt", attempt, "error", err)
	}
	if retryableTxErr(err) {
		return nil, domain.ErrDateConflict
	}
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, booking, listing)

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	return s.getScoped(ctx, domain.ScopeFor(caller), id)
}

func (s *bookingService) List(ctx context.Context, caller domain.Caller, f domain.BookingFilter) ([]domain.Booking, error) {
	return s.bookingRepo.List(ctx, domain.ScopeFor(caller), f)
}

func (s *bookingService) Cancel(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	booking, err := s.getScoped(ctx, domain.ScopeFor(caller), id)
	if err != nil {
		return nil, err
	}
	if err := booking.CanCancel(); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id,
		[]domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed},
		domain.BookingCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if updated == nil {
		// Lost a race with another transition; report the current state.
		if cur, gerr := s.bookingRepo.GetByID(ctx, id); gerr == nil && cur != nil {
			if cerr := cur.CanCancel(); cerr != nil {
				return nil, cerr
			}
		}
		return nil, domain.ErrInvalidTransition
	}

	s.publishCancelled(ctx, updated)

	return updated, nil
}

func (s *bookingService) Confirm(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	return s.transition(ctx, caller, id, domain.BookingPending, domain.BookingConfirmed)
}

func (s *bookingService) Complete(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	return s.transition(ctx, caller, id, domain.BookingConfirmed, domain.BookingCompleted)
}

// transition applies a privileged lifecycle move; only staff trigger
// confirm and complete.
func (s *bookingService) transition(ctx context.Context, caller domain.Caller, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	if !caller.Privileged() {
		return nil, domain.ErrForbidden
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	if err := booking.CanTransition(to); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, id, []domain.BookingStatus{from}, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrInvalidTransition
	}
	return updated, nil
}

func (s *bookingService) getScoped(ctx context.Context, scope domain.Scope, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	// Existence of foreign bookings is concealed.
	if booking == nil || !scope.Allows(booking.GuestID) {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

func (s *bookingService) publishCreated(ctx context.Context, b *domain.Booking, l *domain.Listing) {
	event := events.BookingCreatedEvent{
		BookingID:    b.ID,
		ListingID:    l.ID,
		ListingTitle: l.Title,
		GuestEmail:   s.guestEmail(ctx, b.GuestID),
		CheckIn:      b.CheckIn.Format(time.DateOnly),
		CheckOut:     b.CheckOut.Format(time.DateOnly),
		TotalPrice:   b.TotalPrice,
		CreatedAt:    b.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", b.ID)
	}
}

func (s *bookingService) publishCancelled(ctx context.Context, b *domain.Booking) {
	event := events.BookingCancelledEvent{
		BookingID:   b.ID,
		GuestEmail:  s.guestEmail(ctx, b.GuestID),
		CancelledAt: b.UpdatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCancelled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking cancelled event", "error", err, "booking_id", b.ID)
	}
}

func (s *bookingService) guestEmail(ctx context.Context, guestID int64) string {
	user, err := s.userRepo.FindByID(ctx, guestID)
	if err != nil || user == nil {
		logger.WarnContext(ctx, "Failed to resolve guest email", "guest_id", guestID, "error", err)
		return ""
	}
	return user.Email
}

// retryableTxErr reports store contention worth retrying: serialization
// failures, deadlocks and lock timeouts.
func retryableTxErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}
