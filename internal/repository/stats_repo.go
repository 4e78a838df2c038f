package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelstay/bookings/internal/domain"
)

type StatsRepository interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Collect(ctx context.Context) (*domain.Stats, error) {
	const q = `SELECT
		(SELECT count(*) FROM listings),
		(SELECT count(*) FROM bookings),
		(SELECT coalesce(sum(amount), 0) FROM payments WHERE status='completed'),
		(SELECT coalesce(avg(rating), 0) FROM reviews)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Stats
	if err := r.pool.QueryRow(ctx, q).Scan(
		&s.TotalListings, &s.TotalBookings, &s.TotalRevenue, &s.AverageRating,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
