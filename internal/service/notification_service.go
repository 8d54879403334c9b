package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/events"
	"github.com/service-bay/ticket-service/internal/observability"
	"github.com/service-bay/ticket-service/internal/repository"
)

const (
	statusChangedTemplate = "The status of your ticket '#%s: %s' was updated to '%s'."
	assignedTemplate      = "You have been assigned a new ticket: '#%s: %s'."

	kindStatusChanged = "status_changed"
	kindAssigned      = "assigned"
)

// NotificationService writes the per-user notification log in response to
// ticket events and serves it back to its recipients.
type NotificationService struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
	metrics       *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: notifications,
		logger:        logger,
		metrics:       metrics,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
}

// List returns the actor's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	items, err := n.notifications.ListByRecipient(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

// MarkAllRead flags every unread notification of actor as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	changed, err := n.notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return err
	}
	n.logger.Debug("notifications marked read", zap.String("user_id", actor.ID), zap.Int64("count", changed))
	return nil
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated",
		zap.String("ticket_id", event.Ticket.ID),
		zap.String("created_by", event.Ticket.CreatedBy))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if event.Ticket.CreatedBy == event.Actor.UserID {
		return nil
	}
	message := fmt.Sprintf(statusChangedTemplate, event.Ticket.ID, event.Ticket.Title, payload.NewStatus)
	return n.notify(ctx, kindStatusChanged, event.Ticket.CreatedBy, event.Ticket.ID, message)
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if payload.Assignee == event.Actor.UserID {
		return nil
	}
	message := fmt.Sprintf(assignedTemplate, event.Ticket.ID, event.Ticket.Title)
	return n.notify(ctx, kindAssigned, payload.Assignee, event.Ticket.ID, message)
}

func (n *NotificationService) notify(ctx context.Context, kind, recipientID, ticketID, message string) error {
	ticket := ticketID
	notification := &domain.Notification{
		RecipientID: recipientID,
		TicketID:    &ticket,
		Message:     truncate(message, domain.MaxNotificationMessageLength),
	}
	if notification.Message != message {
		n.logger.Warn("notification message truncated",
			zap.String("kind", kind),
			zap.String("ticket_id", ticketID),
			zap.Int("length", utf8.RuneCountInString(message)))
	}
	err := n.notifications.Create(ctx, notification)
	n.metrics.RecordNotification(kind, err)
	if err != nil {
		return fmt.Errorf("write %s notification: %w", kind, err)
	}
	n.logger.Debug("notification written",
		zap.String("kind", kind),
		zap.String("recipient_id", recipientID),
		zap.String("ticket_id", ticketID))
	return nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
