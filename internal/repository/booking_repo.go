package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelstay/bookings/internal/domain"
)

type BookingRepository interface {
	// Create checks date availability and inserts the booking inside a
	// single transaction holding an advisory lock on the listing.
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, scope domain.Scope, f domain.BookingFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error)
	HasCompletedBooking(ctx context.Context, listingID, guestID int64) (bool, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, listing_id, guest_id, check_in, check_out,
total_price, status, created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(
		&b.ID, &b.ListingID, &b.GuestID, &b.CheckIn, &b.CheckOut,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent creates for the same listing; the lock is
	// released at commit or rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, b.ListingID); err != nil {
		return err
	}

	const overlapQ = `SELECT count(*) FROM bookings
		WHERE listing_id=$1 AND status IN ('pending','confirmed')
		AND check_in < $3 AND check_out > $2`
	var overlapping int
	if err := tx.QueryRow(ctx, overlapQ, b.ListingID, b.CheckIn, b.CheckOut).Scan(&overlapping); err != nil {
		return err
	}
	if overlapping > 0 {
		return domain.ErrDateConflict
	}

	const insertQ = `INSERT INTO bookings (
		listing_id, guest_id, check_in, check_out, total_price, status
	) VALUES ($1,$2,$3,$4,$5,'pending')
	RETURNING ` + bookingCols

	if err := scanBooking(tx.QueryRow(ctx, insertQ,
		b.ListingID, b.GuestID, b.CheckIn, b.CheckOut, b.TotalPrice,
	), b); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q, id), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context, scope domain.Scope, f domain.BookingFilter) ([]domain.Booking, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	q := `SELECT ` + bookingCols + ` FROM bookings`
	var conds []string
	var args []any

	if !scope.All {
		args = append(args, scope.GuestID)
		conds = append(conds, fmt.Sprintf("guest_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}

	q += " ORDER BY " + bookingOrder(f.OrderBy)
	args = append(args, limit, offset)
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	const q = `UPDATE bookings SET status=$2, updated_at=now()
		WHERE id=$1 AND status = ANY($3)
		RETURNING ` + bookingCols

	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var b domain.Booking
	err := scanBooking(r.pool.QueryRow(ctx, q, id, to, statuses), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) HasCompletedBooking(ctx context.Context, listingID, guestID int64) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE listing_id=$1 AND guest_id=$2 AND status='completed'
	)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, listingID, guestID).Scan(&exists)
	return exists, err
}

func bookingOrder(orderBy string) string {
	switch orderBy {
	case "created":
		return "created_at ASC"
	case "check_in":
		return "check_in ASC"
	case "-check_in":
		return "check_in DESC"
	default:
		return "created_at DESC"
	}
}
