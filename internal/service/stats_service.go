package service

import (
	"context"

	"github.com/travelstay/bookings/internal/domain"
	"github.com/travelstay/bookings/internal/repository"
)

type StatsService interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) Collect(ctx context.Context) (*domain.Stats, error) {
	return s.statsRepo.Collect(ctx)
}
