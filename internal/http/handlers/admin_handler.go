package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "mmcatalog/internal/log"
	"mmcatalog/internal/services"
)

// AdminHandler serves the back-office listings, which include inactive rows.
type AdminHandler struct {
	Catalog *services.CatalogService
	Site    *services.SiteService
}

// GET /api/admin/products?quality=
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListAllProducts(c.Query("quality"))
	if err != nil {
		return fail(c, "admin.products.list", "Invalid quality filter", "Could not load products", err)
	}
	return c.JSON(ps)
}

// GET /api/admin/contacts
func (h *AdminHandler) Contacts(c *fiber.Ctx) error {
	out, err := h.Site.Contacts(true)
	if err != nil {
		applog.Error(c, "admin.contacts.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load contacts")
	}
	return c.JSON(out)
}

// GET /api/admin/faq
func (h *AdminHandler) Faq(c *fiber.Ctx) error {
	out, err := h.Site.Faq(true)
	if err != nil {
		applog.Error(c, "admin.faq.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load FAQ")
	}
	return c.JSON(out)
}
