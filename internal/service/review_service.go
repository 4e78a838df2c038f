package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/repository"
)

type ReviewService interface {
	Create(ctx context.Context, caller domain.Caller, req *domain.ReviewCreateReq) (*domain.Review, error)
	List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
	}
}

func (s *reviewService) Create(ctx context.Context, caller domain.Caller, req *domain.ReviewCreateReq) (*domain.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing == nil {
		return nil, domain.ErrNotFound
	}

	// Reviews are gated on a completed stay by this reviewer.
	eligible, err := s.bookingRepo.HasCompletedBooking(ctx, req.ListingID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check review eligibility: %w", err)
	}
	if !eligible {
		return nil, domain.ErrNotEligible
	}

	exists, err := s.reviewRepo.Exists(ctx, req.ListingID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateReview
	}

	review := &domain.Review{
		ListingID:  req.ListingID,
		ReviewerID: caller.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// The unique constraint backstops a create racing the exists
		// check.
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	return s.reviewRepo.List(ctx, f)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
