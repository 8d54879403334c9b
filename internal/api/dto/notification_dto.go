package dto

import (
	"time"

	"github.com/service-bay/ticket-service/internal/domain"
)

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Ticket    *string   `json:"ticket"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponses maps an inbox.
func NewNotificationResponses(items []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationResponse{
			ID:        n.ID,
			Recipient: n.RecipientID,
			Ticket:    n.TicketID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}

// DashboardStatsResponse is the admin rollup.
type DashboardStatsResponse struct {
	TotalTickets      int64 `json:"total_tickets"`
	OpenTickets       int64 `json:"open_tickets"`
	InProgressTickets int64 `json:"in_progress_tickets"`
	TotalCustomers    int64 `json:"total_customers"`
	TotalTechnicians  int64 `json:"total_technicians"`
	TotalAdmins       int64 `json:"total_admins"`
}

// NewDashboardStatsResponse maps the rollup.
func NewDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse(*s)
}
