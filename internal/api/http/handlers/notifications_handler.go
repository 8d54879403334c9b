package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/service-bay/ticket-service/internal/api/dto"
	"github.com/service-bay/ticket-service/internal/service"
)

// NotificationsHandler serves the caller's inbox.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// List handles GET /api/notifications/.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewNotificationResponses(items))
}

// MarkAllRead handles POST /api/notifications/mark_all_as_read/.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAllRead(c.UserContext(), actor); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
