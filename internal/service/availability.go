package service

import (
	"time"

	"github.com/travelstay/bookings/internal/domain"
)

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}

// ValidateRange checks the [checkIn, checkOut) range against the range
// and past-date invariants. now is the server clock at call time.
func ValidateRange(checkIn, checkOut, now time.Time) error {
	if !checkOut.After(checkIn) {
		return domain.ErrInvalidRange
	}
	if checkIn.Before(today(now)) {
		return domain.ErrPastDate
	}
	return nil
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights is the whole-day length of [checkIn, checkOut); always >= 1
// for a valid range.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// ComputeTotal prices a stay deterministically from the listing's
// current nightly rate. The result is frozen into the booking at
// creation; later rate changes never touch existing bookings.
func ComputeTotal(pricePerNight int64, checkIn, checkOut time.Time) int64 {
	return pricePerNight * int64(Nights(checkIn, checkOut))
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
