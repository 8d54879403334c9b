package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/pkg/util/optional"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", domain.RoleAdmin)
	owner := f.user(t, "owner@example.com", domain.RoleCustomer)
	f.user(t, "tech@example.com", domain.RoleTechnician)

	first := f.ticket(t, owner, "one").Ticket
	f.ticket(t, owner, "two")
	third := f.ticket(t, owner, "three").Ticket
	_, err := f.tickets.UpdateTicket(ctx, admin, first.ID, TicketUpdateInput{Status: optional.Of(domain.TicketStatusInProgress)})
	require.NoError(t, err)
	_, err = f.tickets.UpdateTicket(ctx, admin, third.ID, TicketUpdateInput{Status: optional.Of(domain.TicketStatusCancelled)})
	require.NoError(t, err)

	stats, err := NewDashboardService(f.store.Stats()).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		TotalTickets:      3,
		OpenTickets:       1,
		InProgressTickets: 1,
		TotalCustomers:    1,
		TotalTechnicians:  1,
		TotalAdmins:       1,
	}, *stats)
}
