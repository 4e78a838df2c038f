package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/repository"
	"github.com/travelstay/bookings/pkg/events"
	"github.com/travelstay/bookings/pkg/logger"
)

type PaymentService interface {
	Create(ctx context.Context, caller domain.Caller, req *domain.PaymentCreateReq) (*domain.Payment, error)
	Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error)
	List(ctx context.Context, caller domain.Caller, f domain.PaymentFilter) ([]domain.Payment, error)
	Complete(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	eventBus    events.Publisher
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	eventBus events.Publisher,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		eventBus:    eventBus,
	}
}

func (s *paymentService) Create(ctx context.Context, caller domain.Caller, req *domain.PaymentCreateReq) (*domain.Payment, error) {
	method, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		return nil, &domain.ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}

	booking, err := s.loadScopedBooking(ctx, caller, req.BookingID)
	if err != nil {
		return nil, err
	}

	amount := booking.TotalPrice
	if req.Amount != nil {
		amount = *req.Amount
	}
	// The amount gate holds for any deviation, positive or negative.
	if amount != booking.TotalPrice {
		return nil, domain.ErrAmountMismatch
	}

	payment := &domain.Payment{
		BookingID: booking.ID,
		Amount:    amount,
		Method:    method,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := s.loadScopedBooking(ctx, caller, payment.BookingID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, caller domain.Caller, f domain.PaymentFilter) ([]domain.Payment, error) {
	return s.paymentRepo.List(ctx, domain.ScopeFor(caller), f)
}

// Complete stamps a transaction reference and settles the payment. The
// amount was validated at creation and is not re-checked here.
func (s *paymentService) Complete(ctx context.Context, caller domain.Caller, id int64) (*domain.Payment, error) {
	payment, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	ref := "txn_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	updated, err := s.paymentRepo.Complete(ctx, payment.ID, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	event := events.PaymentCompletedEvent{
		PaymentID:      updated.ID,
		BookingID:      updated.BookingID,
		Amount:         updated.Amount,
		TransactionRef: ref,
		CompletedAt:    updated.UpdatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.PaymentCompleted, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish payment completed event", "error", err, "payment_id", updated.ID)
	}

	return updated, nil
}

// loadScopedBooking resolves a booking visible to the caller; foreign
// bookings read as not found.
func (s *paymentService) loadScopedBooking(ctx context.Context, caller domain.Caller, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil || !domain.ScopeFor(caller).Allows(booking.GuestID) {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}
