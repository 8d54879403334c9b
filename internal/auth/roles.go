package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/service-bay/ticket-service/internal/domain"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
)

const permissionDenied = "You do not have permission to perform this action."

// RequireRole ensures the authenticated user holds one of the allowed roles.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		user, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Authentication credentials were not provided.")
		}
		if _, exists := allowedSet[user.Role]; !exists {
			return apperrors.NewForbidden(permissionDenied)
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole for administrators.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
