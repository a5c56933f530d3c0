package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mmcatalog/internal/domain"
	"mmcatalog/internal/log"
	"mmcatalog/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products?quality=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListProducts(c.Query("quality"))
	if err != nil {
		return fail(c, "products.list", "Invalid quality filter", "Failed to fetch products", err)
	}
	return c.JSON(ps)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.Params("id"))
	if err != nil {
		log.Error(c, "products.get.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch product")
	}
	if p == nil {
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	}
	return c.JSON(p)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in domain.NewProduct
	if !bindJSON(c, &in) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid product data")
	}
	p, err := h.Catalog.CreateProduct(in)
	if err != nil {
		return fail(c, "admin.product.create", "Invalid product data", "Failed to create product", err)
	}
	log.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var patch domain.ProductPatch
	if !bindJSON(c, &patch) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid product data")
	}
	id := c.Params("id")
	p, err := h.Catalog.UpdateProduct(id, patch)
	if err != nil {
		return fail(c, "admin.product.update", "Invalid product data", "Failed to update product", err)
	}
	if p == nil {
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	}
	log.Audit(c, "admin.product.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.Catalog.DeleteProduct(id) {
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	}
	log.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"success": true})
}
