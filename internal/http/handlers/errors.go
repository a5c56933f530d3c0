package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "mmcatalog/internal/log"
)

// ErrorHandler logs the failure and answers without internal details: JSON
// under /api, the notfound page elsewhere. Status codes of fiber.Error
// (404, 413, ...) are kept; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := "Something went wrong. Please try again."
	switch code {
	case fiber.StatusNotFound:
		msg = "Page not found"
	case fiber.StatusRequestEntityTooLarge:
		msg = "Request body too large"
	case fiber.StatusMethodNotAllowed:
		msg = "Method not allowed"
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	} else {
		applog.Security(c, "server.reject", map[string]any{"status": code})
	}

	if strings.HasPrefix(c.Path(), "/api") {
		return jsonError(c, code, msg)
	}
	if rerr := NotFoundPage(c, code, msg); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
