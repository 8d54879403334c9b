package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/repository"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
)

func newAuthApp(t *testing.T) (*fiber.App, *TokenManager, repository.UserRepository) {
	t.Helper()
	store := repository.NewMemoryStore()
	users := store.Users()
	tokens := NewTokenManager("secret", time.Minute, time.Hour)
	mw := NewAuthMiddleware(tokens, users)

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
		}
		return c.SendStatus(http.StatusInternalServerError)
	}})
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		user, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(user.Email)
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app, tokens, users
}

func createUser(t *testing.T, users repository.UserRepository, email string, role domain.UserRole, active bool) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Role: role, IsActive: active}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func bearer(t *testing.T, tokens *TokenManager, user *domain.User) string {
	t.Helper()
	pair, err := tokens.IssuePair(user)
	require.NoError(t, err)
	return "Bearer " + pair.Access
}

func TestAuthMiddleware(t *testing.T) {
	app, tokens, users := newAuthApp(t)
	active := createUser(t, users, "active@example.com", domain.RoleCustomer, true)
	inactive := createUser(t, users, "inactive@example.com", domain.RoleCustomer, false)

	refreshPair, err := tokens.IssuePair(active)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "refresh token as access", header: "Bearer " + refreshPair.Refresh, status: http.StatusUnauthorized},
		{name: "inactive user", header: bearer(t, tokens, inactive), status: http.StatusUnauthorized},
		{name: "active user", header: bearer(t, tokens, active), status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	app, tokens, users := newAuthApp(t)
	admin := createUser(t, users, "admin@example.com", domain.RoleAdmin, true)
	tech := createUser(t, users, "tech@example.com", domain.RoleTechnician, true)

	for user, status := range map[*domain.User]int{admin: http.StatusNoContent, tech: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, user))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, user.Email)
	}
}
