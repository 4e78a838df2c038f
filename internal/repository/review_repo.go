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

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error)
	Exists(ctx context.Context, listingID, reviewerID int64) (bool, error)
	AggregateForListing(ctx context.Context, listingID int64) (*domain.ListingStats, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

const reviewCols = `id, listing_id, reviewer_id, rating, comment, created_at, updated_at`

func scanReview(row pgx.Row, rv *domain.Review) error {
	return row.Scan(
		&rv.ID, &rv.ListingID, &rv.ReviewerID, &rv.Rating, &rv.Comment,
		&rv.CreatedAt, &rv.UpdatedAt,
	)
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	const q = `INSERT INTO reviews (listing_id, reviewer_id, rating, comment)
	VALUES ($1,$2,$3,$4)
	RETURNING ` + reviewCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReview(r.pool.QueryRow(ctx, q,
		rv.ListingID, rv.ReviewerID, rv.Rating, rv.Comment,
	), rv)
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var rv domain.Review
	err := scanReview(r.pool.QueryRow(ctx, q, id), &rv)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	q := `SELECT ` + reviewCols + ` FROM reviews`
	var conds []string
	var args []any

	if f.ListingID != nil {
		args = append(args, *f.ListingID)
		conds = append(conds, fmt.Sprintf("listing_id = $%d", len(args)))
	}
	if f.Rating != nil {
		args = append(args, *f.Rating)
		conds = append(conds, fmt.Sprintf("rating = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}

	q += " ORDER BY " + reviewOrder(f.OrderBy)
	args = append(args, limit, offset)
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) Exists(ctx context.Context, listingID, reviewerID int64) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM reviews WHERE listing_id=$1 AND reviewer_id=$2
	)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, listingID, reviewerID).Scan(&exists)
	return exists, err
}

func (r *reviewRepository) AggregateForListing(ctx context.Context, listingID int64) (*domain.ListingStats, error) {
	const q = `SELECT coalesce(avg(rating), 0), count(*) FROM reviews WHERE listing_id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.ListingStats
	if err := r.pool.QueryRow(ctx, q, listingID).Scan(&s.AverageRating, &s.TotalReviews); err != nil {
		return nil, err
	}
	return &s, nil
}

func reviewOrder(orderBy string) string {
	switch orderBy {
	case "created":
		return "created_at ASC"
	case "rating":
		return "rating ASC"
	case "-rating":
		return "rating DESC"
	default:
		return "created_at DESC"
	}
}
