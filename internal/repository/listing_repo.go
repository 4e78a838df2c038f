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

type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	List(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error)
	UpdatePrice(ctx context.Context, id, pricePerNight int64) (*domain.Listing, error)
}

type listingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &listingRepository{pool: pool}
}

const listingCols = `id, title, description, price_per_night, location,
amenities, is_available, host_id, created_at, updated_at`

func scanListing(row pgx.Row, l *domain.Listing) error {
	return row.Scan(
		&l.ID, &l.Title, &l.Description, &l.PricePerNight, &l.Location,
		&l.Amenities, &l.IsAvailable, &l.HostID, &l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	const q = `INSERT INTO listings (
		title, description, price_per_night, location, amenities, is_available, host_id
	) VALUES ($1,$2,$3,$4,$5,$6,$7)
	RETURNING ` + listingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanListing(r.pool.QueryRow(ctx, q,
		l.Title, l.Description, l.PricePerNight, l.Location,
		l.Amenities, l.IsAvailable, l.HostID,
	), l)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	const q = `SELECT ` + listingCols + ` FROM listings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var l domain.Listing
	err := scanListing(r.pool.QueryRow(ctx, q, id), &l)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) List(ctx context.Context, f domain.ListingFilter) ([]domain.Listing, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	q := `SELECT ` + listingCols + ` FROM listings`
	var conds []string
	var args []any

	if f.Location != "" {
		args = append(args, f.Location)
		conds = append(conds, fmt.Sprintf("lower(location) = lower($%d)", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		conds = append(conds, fmt.Sprintf("price_per_night >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conds = append(conds, fmt.Sprintf("price_per_night <= $%d", len(args)))
	}
	if f.Available != nil {
		args = append(args, *f.Available)
		conds = append(conds, fmt.Sprintf("is_available = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d OR amenities ILIKE $%d)",
			n, n, n, n))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}

	q += " ORDER BY " + listingOrder(f.OrderBy)
	args = append(args, limit, offset)
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *listingRepository) UpdatePrice(ctx context.Context, id, pricePerNight int64) (*domain.Listing, error) {
	const q = `UPDATE listings SET price_per_night=$2, updated_at=now() WHERE id=$1
	RETURNING ` + listingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var l domain.Listing
	err := scanListing(r.pool.QueryRow(ctx, q, id, pricePerNight), &l)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func listingOrder(orderBy string) string {
	switch orderBy {
	case "price":
		return "price_per_night ASC"
	case "-price":
		return "price_per_night DESC"
	case "created":
		return "created_at ASC"
	default:
		return "created_at DESC"
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
