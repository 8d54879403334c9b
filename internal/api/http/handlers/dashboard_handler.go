package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/service-bay/ticket-service/internal/api/dto"
	"github.com/service-bay/ticket-service/internal/service"
)

// DashboardHandler serves admin statistics.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/dashboard-stats/.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboardStatsResponse(stats))
}
