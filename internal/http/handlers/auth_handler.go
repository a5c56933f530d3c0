package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"mmcatalog/internal/log"
	"mmcatalog/internal/services"
	"mmcatalog/internal/validate"
)

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if !bindJSON(c, &in) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid login request")
	}
	username, ok := validate.Username(in.Username)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"username": in.Username, "reason": "bad_format"})
		return jsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}
	if !validate.Password(in.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_password_format"})
		return jsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}

	u, tok, exp, err := h.Auth.Login(username, in.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return jsonError(c, fiber.StatusUnauthorized, "Invalid username or password")
	}
	if err != nil {
		log.Error(c, "auth.login.error", err, map[string]any{"username": username})
		return jsonError(c, fiber.StatusInternalServerError, "Login failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     AdminCookie,
		Value:    tok,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.SecureCookie,
	})
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.JSON(fiber.Map{"token": tok, "expiresAt": exp.UTC(), "user": u})
}

// POST /api/auth/logout. Tokens are stateless; logging out drops the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     AdminCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(c.Locals("user"))
}
