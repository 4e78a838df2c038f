package domain

// Stats is the platform-wide aggregate snapshot.
type Stats struct {
	TotalListings int64   `json:"total_listings"`
	TotalBookings int64   `json:"total_bookings"`
	TotalRevenue  int64   `json:"total_revenue"` // completed payments, cents
	AverageRating float64 `json:"average_rating"`
}
