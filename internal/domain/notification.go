package domain

import "time"

// MaxNotificationMessageLength bounds stored notification text.
const MaxNotificationMessageLength = 255

// Notification is an entry in a user's message log.
type Notification struct {
	ID          string
	RecipientID string
	TicketID    *string
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}

// DashboardStats is the admin rollup of tickets and users.
type DashboardStats struct {
	TotalTickets      int64
	OpenTickets       int64
	InProgressTickets int64
	TotalCustomers    int64
	TotalTechnicians  int64
	TotalAdmins       int64
}
