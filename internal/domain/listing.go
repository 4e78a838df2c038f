package domain

import (
	"strings"
	"time"
)

type Listing struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PricePerNight int64     `json:"price_per_night"` // cents
	Location      string    `json:"location"`
	Amenities     string    `json:"amenities"` // comma-separated
	IsAvailable   bool      `json:"is_available"`
	HostID        int64     `json:"host_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AmenitiesList splits the stored comma-separated amenities into an
// ordered slice, dropping empty entries.
func (l *Listing) AmenitiesList() []string {
	if strings.TrimSpace(l.Amenities) == "" {
		return []string{}
	}
	parts := strings.Split(l.Amenities, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type ListingCreateReq struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PricePerNight int64  `json:"price_per_night"`
	Location      string `json:"location"`
	Amenities     string `json:"amenities"`
}

func (r *ListingCreateReq) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if r.PricePerNight <= 0 {
		return &ValidationError{Field: "price_per_night", Message: "price per night must be greater than 0"}
	}
	return nil
}

// ListingPriceUpdateReq changes the nightly rate. Existing bookings
// keep the total frozen at their creation.
type ListingPriceUpdateReq struct {
	PricePerNight int64 `json:"price_per_night"`
}

func (r *ListingPriceUpdateReq) Validate() error {
	if r.PricePerNight <= 0 {
		return &ValidationError{Field: "price_per_night", Message: "price per night must be greater than 0"}
	}
	return nil
}

// ListingFilter narrows listing queries; zero values mean "no filter".
type ListingFilter struct {
	Location  string
	MinPrice  *int64
	MaxPrice  *int64
	Available *bool
	Search    string
	OrderBy   string // price, -price, created, -created
	Limit     int
	Offset    int
}

type ListingDTO struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PricePerNight int64     `json:"price_per_night"`
	Location      string    `json:"location"`
	Amenities     string    `json:"amenities"`
	AmenitiesList []string  `json:"amenities_list"`
	IsAvailable   bool      `json:"is_available"`
	HostID        int64     `json:"host_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	TotalReviews  *int64    `json:"total_reviews,omitempty"`
}

func (l *Listing) DTO() ListingDTO {
	return ListingDTO{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		PricePerNight: l.PricePerNight,
		Location:      l.Location,
		Amenities:     l.Amenities,
		AmenitiesList: l.AmenitiesList(),
		IsAvailable:   l.IsAvailable,
		HostID:        l.HostID,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func (l *Listing) DTOWithStats(s *ListingStats) ListingDTO {
	dto := l.DTO()
	if s != nil {
		dto.AverageRating = &s.AverageRating
		dto.TotalReviews = &s.TotalReviews
	}
	return dto
}

// ListingStats carries review aggregates derived per listing.
type ListingStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}
