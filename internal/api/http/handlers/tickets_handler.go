package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/service-bay/ticket-service/internal/api/dto"
	"github.com/service-bay/ticket-service/internal/policy"
	"github.com/service-bay/ticket-service/internal/service"
)

// TicketsHandler manages ticket endpoints for every role.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets/.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), actor, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// ListTickets GET /api/tickets/. Only admin listings are paginated.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req service.PageRequest
	if policy.ScopeFor(actor).Paginated {
		if req, err = pageRequest(c); err != nil {
			return err
		}
	}
	page, err := h.service.ListTickets(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	items := dto.NewTicketResponses(page.Items)
	if page.Info == nil {
		return c.JSON(items)
	}
	return c.JSON(pageEnvelope(c, *page.Info, items))
}

// GetTicket GET /api/tickets/:id/.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// ReplaceTicket PUT /api/tickets/:id/.
func (h *TicketsHandler) ReplaceTicket(c *fiber.Ctx) error {
	return h.update(c, true)
}

// PatchTicket PATCH /api/tickets/:id/.
func (h *TicketsHandler) PatchTicket(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *TicketsHandler) update(c *fiber.Ctx, replace bool) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), actor, c.Params("id"), req.Input(replace))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}
