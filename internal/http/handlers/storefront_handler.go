package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"mmcatalog/internal/domain"
	"mmcatalog/internal/log"
	"mmcatalog/internal/services"
	"mmcatalog/internal/validate"
)

type StorefrontHandler struct {
	Catalog *services.CatalogService
	Site    *services.SiteService
}

type productView struct {
	ID             string
	Name           string
	Description    string
	Quality        string
	Cover          string
	Images         []string
	Specifications []string
}

type faqView struct {
	Question string
	Answer   string
}

// GET /?quality=&lang=
// The three reads run concurrently. Contacts and FAQ failures degrade to
// empty sections; a product failure is a 500.
func (h *StorefrontHandler) Home(c *fiber.Ctx) error {
	quality, ok := validate.QualityFilter(c.Query("quality"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "quality"})
		quality = ""
	}

	var (
		products            []domain.Product
		contacts            []domain.ContactInfo
		faq                 []domain.FaqItem
		contactsErr, faqErr error
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		products, err = h.Catalog.ListProducts(quality)
		return err
	})
	g.Go(func() error {
		contacts, contactsErr = h.Site.Contacts(false)
		return nil
	})
	g.Go(func() error {
		faq, faqErr = h.Site.Faq(false)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error(c, "storefront.products.fail", err, nil)
		return NotFoundPage(c, fiber.StatusInternalServerError, "Could not load products. Please retry.")
	}
	if contactsErr != nil {
		log.Error(c, "storefront.contacts.fail", contactsErr, nil)
	}
	if faqErr != nil {
		log.Error(c, "storefront.faq.fail", faqErr, nil)
	}

	lang := langOf(c)
	pv := make([]productView, 0, len(products))
	for _, p := range products {
		v := productView{
			ID:             p.ID,
			Name:           p.Name.In(lang),
			Description:    p.Description.In(lang),
			Quality:        string(p.Quality),
			Images:         p.Images,
			Specifications: p.Specifications.In(lang),
		}
		if len(p.Images) > 0 {
			v.Cover = p.Images[0]
		}
		pv = append(pv, v)
	}
	fv := make([]faqView, 0, len(faq))
	for _, f := range faq {
		fv = append(fv, faqView{Question: f.Question.In(lang), Answer: f.Answer.In(lang)})
	}

	return render(c, "home", fiber.Map{
		"Quality":   quality,
		"Qualities": domain.Qualities,
		"Products":  pv,
		"Contacts":  contacts,
		"Faq":       fv,
	})
}
