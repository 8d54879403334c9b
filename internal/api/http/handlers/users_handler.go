package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/service-bay/ticket-service/internal/api/dto"
	"github.com/service-bay/ticket-service/internal/service"
)

// UsersHandler exposes registration, the caller's profile and the admin directory.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Register handles POST /api/users/register/.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.Register(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Me handles GET /api/users/me/.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.users.Me(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// List handles GET /api/users/.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.users.ListUsers(c.UserContext(), service.UserListFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   req,
	})
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(c, page.Info, dto.NewUserResponses(page.Items)))
}

// Create handles POST /api/users/.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Get handles GET /api/users/:id/.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Replace handles PUT /api/users/:id/.
func (h *UsersHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

// Patch handles PATCH /api/users/:id/.
func (h *UsersHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *UsersHandler) update(c *fiber.Ctx, replace bool) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateUser(c.UserContext(), actor, c.Params("id"), req.Input(replace))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
