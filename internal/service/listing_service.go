package service

import (
	"context"
	"fmt"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/repository"
)

type ListingService interface {
	Create(ctx context.Context, caller domain.Caller, req *domain.ListingCreateReq) (*domain.Listing, error)
	Get(ctx context.Context, id int64) (*domain.Listing, *domain.ListingStats, error)
	List(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error)
	UpdatePrice(ctx context.Context, caller domain.Caller, id int64, req *domain.ListingPriceUpdateReq) (*domain.Listing, error)
}

type listingService struct {
	listingRepo repository.ListingRepository
	reviewRepo  repository.ReviewRepository
}

func NewListingService(listingRepo repository.ListingRepository, reviewRepo repository.ReviewRepository) ListingService {
	return &listingService{listingRepo: listingRepo, reviewRepo: reviewRepo}
}

func (s *listingService) Create(ctx context.Context, caller domain.Caller, req *domain.ListingCreateReq) (*domain.Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Host is always the caller; it is never accepted as input.
	listing := &domain.Listing{
		Title:         req.Title,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		Location:      req.Location,
		Amenities:     req.Amenities,
		IsAvailable:   true,
		HostID:        caller.ID,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, id int64) (*domain.Listing, *domain.ListingStats, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing == nil {
		return nil, nil, domain.ErrNotFound
	}

	stats, err := s.reviewRepo.AggregateForListing(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return listing, stats, nil
}

func (s *listingService) List(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	return s.listingRepo.List(ctx, f)
}

// UpdatePrice changes the nightly rate; only the host or staff may do
// it. Totals already frozen into bookings are untouched.
func (s *listingService) UpdatePrice(ctx context.Context, caller domain.Caller, id int64, req *domain.ListingPriceUpdateReq) (*domain.Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing == nil {
		return nil, domain.ErrNotFound
	}
	if listing.HostID != caller.ID && !caller.Privileged() {
		return nil, domain.ErrForbidden
	}

	updated, err := s.listingRepo.UpdatePrice(ctx, id, req.PricePerNight)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing price: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return updated, nil
}
