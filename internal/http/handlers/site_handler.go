package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"mmcatalog/internal/domain"
	"mmcatalog/internal/log"
	"mmcatalog/internal/services"
)

// SiteHandler serves content sections, contacts and the FAQ.
type SiteHandler struct {
	Site *services.SiteService
}

// GET /api/content
func (h *SiteHandler) Content(c *fiber.Ctx) error {
	out, err := h.Site.Content()
	if err != nil {
		log.Error(c, "content.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch content")
	}
	return c.JSON(out)
}

// GET /api/content/:section
func (h *SiteHandler) Section(c *fiber.Ctx) error {
	sc, err := h.Site.Section(c.Params("section"))
	if err != nil {
		log.Error(c, "content.get.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch content")
	}
	if sc == nil {
		return jsonError(c, fiber.StatusNotFound, "Content not found")
	}
	return c.JSON(sc)
}

// PUT /api/content/:section with body {"content": {...}}
func (h *SiteHandler) SaveSection(c *fiber.Ctx) error {
	var in struct {
		Content json.RawMessage `json:"content"`
	}
	if !bindJSON(c, &in) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid content data")
	}
	sc, err := h.Site.SaveSection(c.Params("section"), in.Content)
	if err != nil {
		return fail(c, "admin.content.save", "Invalid content data", "Failed to save content", err)
	}
	log.Audit(c, "admin.content.save", map[string]any{"section": sc.Section})
	return c.JSON(sc)
}

// GET /api/contacts
func (h *SiteHandler) Contacts(c *fiber.Ctx) error {
	out, err := h.Site.Contacts(false)
	if err != nil {
		log.Error(c, "contacts.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch contacts")
	}
	return c.JSON(out)
}

// PUT /api/contacts/:platform
func (h *SiteHandler) SaveContact(c *fiber.Ctx) error {
	var patch domain.ContactPatch
	if !bindJSON(c, &patch) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid contact data")
	}
	ci, err := h.Site.SaveContact(c.Params("platform"), patch)
	if err != nil {
		return fail(c, "admin.contact.save", "Invalid contact data", "Failed to save contact", err)
	}
	log.Audit(c, "admin.contact.save", map[string]any{"platform": ci.Platform})
	return c.JSON(ci)
}

// GET /api/faq
func (h *SiteHandler) Faq(c *fiber.Ctx) error {
	out, err := h.Site.Faq(false)
	if err != nil {
		log.Error(c, "faq.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch FAQ")
	}
	return c.JSON(out)
}

// POST /api/faq
func (h *SiteHandler) CreateFaq(c *fiber.Ctx) error {
	var in domain.NewFaqItem
	if !bindJSON(c, &in) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid FAQ data")
	}
	f, err := h.Site.CreateFaq(in)
	if err != nil {
		return fail(c, "admin.faq.create", "Invalid FAQ data", "Failed to create FAQ item", err)
	}
	log.Audit(c, "admin.faq.create", map[string]any{"faq_id": f.ID})
	return c.Status(fiber.StatusCreated).JSON(f)
}

// PUT /api/faq/:id
func (h *SiteHandler) UpdateFaq(c *fiber.Ctx) error {
	var patch domain.FaqPatch
	if !bindJSON(c, &patch) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid FAQ data")
	}
	f, err := h.Site.UpdateFaq(c.Params("id"), patch)
	if err != nil {
		return fail(c, "admin.faq.update", "Invalid FAQ data", "Failed to update FAQ item", err)
	}
	if f == nil {
		return jsonError(c, fiber.StatusNotFound, "FAQ item not found")
	}
	log.Audit(c, "admin.faq.update", map[string]any{"faq_id": f.ID})
	return c.JSON(f)
}

// DELETE /api/faq/:id
func (h *SiteHandler) DeleteFaq(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.Site.DeleteFaq(id) {
		return jsonError(c, fiber.StatusNotFound, "FAQ item not found")
	}
	log.Audit(c, "admin.faq.delete", map[string]any{"faq_id": id})
	return c.JSON(fiber.Map{"success": true})
}
