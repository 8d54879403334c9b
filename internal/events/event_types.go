package events

import (
	"time"

	"github.com/service-bay/ticket-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
)

// TicketEventTypes lists every type published by the ticket service.
var TicketEventTypes = []EventType{EventTicketCreated, EventTicketStatusChanged, EventTicketAssigned}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// TicketRef is the ticket snapshot carried by every ticket event.
type TicketRef struct {
	ID               string  `json:"id"`
	CustomerTicketID int     `json:"customer_ticket_id"`
	Title            string  `json:"title"`
	CreatedBy        string  `json:"created_by"`
	AssignedTo       *string `json:"assigned_to,omitempty"`
}

// RefFor snapshots ticket.
func RefFor(ticket *domain.Ticket) TicketRef {
	return TicketRef{
		ID:               ticket.ID,
		CustomerTicketID: ticket.CustomerTicketID,
		Title:            ticket.Title,
		CreatedBy:        ticket.CreatedBy,
		AssignedTo:       ticket.AssignedTo,
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Ticket    TicketRef   `json:"ticket"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Priority domain.TicketPriority `json:"priority"`
	Category domain.TicketCategory `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	PreviousAssignee *string `json:"previous_assignee,omitempty"`
	Assignee         string  `json:"assignee"`
}
