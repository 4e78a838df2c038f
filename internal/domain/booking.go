package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

type Booking struct {
	ID         int64         `json:"id"`
	ListingID  int64         `json:"listing_id"`
	GuestID    int64         `json:"guest_id"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	TotalPrice int64         `json:"total_price"` // cents, frozen at creation
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Nights is the whole-day length of the half-open [check_in, check_out)
// range.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// IsActive reports whether the booking still blocks its date range.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanCancel gates the cancel transition.
func (b *Booking) CanCancel() error {
	switch b.Status {
	case BookingCompleted:
		return ErrAlreadyCompleted
	case BookingCancelled:
		return ErrAlreadyCancelled
	default:
		return nil
	}
}

// CanTransition gates confirm/complete; cancelled and completed are
// terminal.
func (b *Booking) CanTransition(to BookingStatus) error {
	switch {
	case to == BookingConfirmed && b.Status == BookingPending:
		return nil
	case to == BookingCompleted && b.Status == BookingConfirmed:
		return nil
	default:
		return ErrInvalidTransition
	}
}

type BookingDTO struct {
	ID         int64     `json:"id"`
	ListingID  int64     `json:"listing_id"`
	GuestID    int64     `json:"guest_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	Duration   int       `json:"duration"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (b *Booking) DTO() BookingDTO {
	return BookingDTO{
		ID:         b.ID,
		ListingID:  b.ListingID,
		GuestID:    b.GuestID,
		CheckIn:    b.CheckIn.Format(time.DateOnly),
		CheckOut:   b.CheckOut.Format(time.DateOnly),
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		Duration:   b.Nights(),
		IsActive:   b.IsActive(),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

type BookingCreateReq struct {
	ListingID int64  `json:"listing_id"`
	CheckIn   string `json:"check_in"`  // YYYY-MM-DD
	CheckOut  string `json:"check_out"` // YYYY-MM-DD
}

// BookingFilter narrows booking queries within an access scope.
type BookingFilter struct {
	Status  *BookingStatus
	OrderBy string // created, -created, check_in, -check_in
	Limit   int
	Offset  int
}
