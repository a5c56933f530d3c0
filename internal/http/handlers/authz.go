package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "mmcatalog/internal/log"
	"mmcatalog/internal/services"
)

// AdminCookie carries the admin token for browser clients.
const AdminCookie = "admin_token"

func bearerToken(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(AdminCookie)
}

// RequireAdmin accepts a token from the Authorization header or the admin
// cookie. Every user account is an administrator; shoppers never sign in.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "no_token"})
			return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
		}
		u, err := auth.CurrentUser(tok)
		if err != nil || u == nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "bad_token"})
			return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
		}
		c.Locals("user", u)
		return c.Next()
	}
}
