package service

import (
	"context"

	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/repository"
)

// DashboardService serves the admin statistics rollup.
type DashboardService struct {
	stats repository.StatsRepository
}

// NewDashboardService builds the service.
func NewDashboardService(stats repository.StatsRepository) *DashboardService {
	return &DashboardService{stats: stats}
}

// Stats returns ticket and user counts taken from one snapshot.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.stats.Snapshot(ctx)
}
