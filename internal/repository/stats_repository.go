package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/service-bay/ticket-service/internal/domain"
)

// StatsRepository reads dashboard rollups.
type StatsRepository interface {
	Snapshot(ctx context.Context) (*domain.DashboardStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository builds repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

// Snapshot computes all counts in one statement so they share a snapshot.
func (r *statsRepository) Snapshot(ctx context.Context) (*domain.DashboardStats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM tickets),
            (SELECT COUNT(*) FROM tickets WHERE status=$1),
            (SELECT COUNT(*) FROM tickets WHERE status=$2),
            (SELECT COUNT(*) FROM users WHERE user_role=$3),
            (SELECT COUNT(*) FROM users WHERE user_role=$4),
            (SELECT COUNT(*) FROM users WHERE user_role=$5)`

	var stats domain.DashboardStats
	if err := r.pool.QueryRow(ctx, query,
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.RoleCustomer,
		domain.RoleTechnician,
		domain.RoleAdmin,
	).Scan(
		&stats.TotalTickets,
		&stats.OpenTickets,
		&stats.InProgressTickets,
		&stats.TotalCustomers,
		&stats.TotalTechnicians,
		&stats.TotalAdmins,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}
