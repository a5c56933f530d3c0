package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Mount registers the storefront page and the JSON API. loginLimit guards
// the login endpoint; nil disables it.
func Mount(app *fiber.App, d *Deps, loginLimit fiber.Handler) {
	if loginLimit == nil {
		loginLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	admin := RequireAdmin(d.AuthHandler.Auth)

	app.Get("/", d.StorefrontHandler.Home)

	api := app.Group("/api")

	// Public catalog
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/content", d.SiteHandler.Content)
	api.Get("/content/:section", d.SiteHandler.Section)
	api.Get("/contacts", d.SiteHandler.Contacts)
	api.Get("/faq", d.SiteHandler.Faq)

	// Auth
	api.Post("/auth/login", loginLimit, d.AuthHandler.Login)
	api.Post("/auth/logout", d.AuthHandler.Logout)
	api.Get("/auth/me", admin, d.AuthHandler.Me)

	// Admin writes
	api.Post("/products", admin, d.ProductHandler.Create)
	api.Put("/products/:id", admin, d.ProductHandler.Update)
	api.Delete("/products/:id", admin, d.ProductHandler.Delete)
	api.Put("/content/:section", admin, d.SiteHandler.SaveSection)
	api.Put("/contacts/:platform", admin, d.SiteHandler.SaveContact)
	api.Post("/faq", admin, d.SiteHandler.CreateFaq)
	api.Put("/faq/:id", admin, d.SiteHandler.UpdateFaq)
	api.Delete("/faq/:id", admin, d.SiteHandler.DeleteFaq)
	api.Post("/uploads", admin, d.UploadHandler.Upload)

	// Admin listings
	adm := api.Group("/admin", admin)
	adm.Get("/products", d.AdminHandler.Products)
	adm.Get("/contacts", d.AdminHandler.Contacts)
	adm.Get("/faq", d.AdminHandler.Faq)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "backend": d.Repo.Backend()})
	})
}
