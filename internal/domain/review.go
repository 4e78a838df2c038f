package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         int64     `json:"id"`
	ListingID  int64     `json:"listing_id"`
	ReviewerID int64     `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReviewCreateReq struct {
	ListingID int64  `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (r *ReviewCreateReq) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	return nil
}

type ReviewFilter struct {
	ListingID *int64
	Rating    *int
	OrderBy   string // created, -created, rating, -rating
	Limit     int
	Offset    int
}
