package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/service"
)

type listingFixture struct {
	listings *memListingRepo
	reviews  *memReviewRepo
	svc      service.ListingService
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	f := &listingFixture{
		listings: newMemListingRepo(),
		reviews:  newMemReviewRepo(),
	}
	f.svc = service.NewListingService(f.listings, f.reviews)
	return f
}

var host = domain.Caller{ID: 2, Email: "host@example.com"}

func TestListingCreate(t *testing.T) {
	f := newListingFixture(t)

	l, err := f.svc.Create(context.Background(), host, &domain.ListingCreateReq{
		Title: "Seaside Loft", PricePerNight: 10000,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if l.HostID != host.ID {
		t.Errorf("HostID = %d, want caller %d", l.HostID, host.ID)
	}
	if !l.IsAvailable {
		t.Error("new listing should be available")
	}
}

func TestListingCreateValidation(t *testing.T) {
	f := newListingFixture(t)

	tests := []struct {
		name string
		req  domain.ListingCreateReq
	}{
		{"empty title", domain.ListingCreateReq{Title: "  ", PricePerNight: 10000}},
		{"zero price", domain.ListingCreateReq{Title: "Loft", PricePerNight: 0}},
		{"negative price", domain.ListingCreateReq{Title: "Loft", PricePerNight: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), host, &tt.req)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestListingUpdatePrice(t *testing.T) {
	f := newListingFixture(t)
	l, err := f.svc.Create(context.Background(), host, &domain.ListingCreateReq{
		Title: "Seaside Loft", PricePerNight: 10000,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := f.svc.UpdatePrice(context.Background(), host, l.ID, &domain.ListingPriceUpdateReq{PricePerNight: 15000})
	if err != nil {
		t.Fatalf("UpdatePrice returned error: %v", err)
	}
	if updated.PricePerNight != 15000 {
		t.Errorf("PricePerNight = %d, want 15000", updated.PricePerNight)
	}

	// Staff may change any listing's rate.
	if _, err := f.svc.UpdatePrice(context.Background(), staff, l.ID, &domain.ListingPriceUpdateReq{PricePerNight: 12000}); err != nil {
		t.Errorf("staff UpdatePrice: got %v, want nil", err)
	}
}

func TestListingUpdatePriceAuthorization(t *testing.T) {
	f := newListingFixture(t)
	l, err := f.svc.Create(context.Background(), host, &domain.ListingCreateReq{
		Title: "Seaside Loft", PricePerNight: 10000,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Listings are public, so a stranger gets forbidden rather than a
	// concealed not-found.
	if _, err := f.svc.UpdatePrice(context.Background(), guest, l.ID, &domain.ListingPriceUpdateReq{PricePerNight: 15000}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign UpdatePrice: got %v, want ErrForbidden", err)
	}

	if _, err := f.svc.UpdatePrice(context.Background(), host, 999, &domain.ListingPriceUpdateReq{PricePerNight: 15000}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown listing: got %v, want ErrNotFound", err)
	}

	_, err = f.svc.UpdatePrice(context.Background(), host, l.ID, &domain.ListingPriceUpdateReq{PricePerNight: 0})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("zero price: got %v, want ValidationError", err)
	}
}
