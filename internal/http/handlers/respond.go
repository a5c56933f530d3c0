package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "mmcatalog/internal/log"
	"mmcatalog/internal/services"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail maps a service error to a response: validation problems become 400
// with the field named, anything else is logged and hidden behind a 500.
func fail(c *fiber.Ctx, action, msg400, msg500 string, err error) error {
	var fe *services.FieldError
	if errors.As(err, &fe) {
		applog.Security(c, "validation.fail", map[string]any{"field": fe.Field, "action": action})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg400, "field": fe.Field})
	}
	applog.Error(c, action+".fail", err, nil)
	return jsonError(c, fiber.StatusInternalServerError, msg500)
}

// bindJSON decodes the request body, logging malformed documents.
func bindJSON(c *fiber.Ctx, dst any) bool {
	if err := c.BodyParser(dst); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return false
	}
	return true
}
