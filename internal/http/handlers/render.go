package handlers

import (
	"github.com/gofiber/fiber/v2"

	"mmcatalog/internal/domain"
	"mmcatalog/internal/i18n"
)

// labels holds the fixed storefront strings per language.
var labels = map[string]map[string]string{
	domain.LangEn: {
		"title":    "Our products",
		"all":      "All",
		"high":     "High quality",
		"medium":   "Medium quality",
		"low":      "Low quality",
		"contact":  "Contact us",
		"faq":      "Frequently asked questions",
		"empty":    "No products yet.",
		"notfound": "Page not found",
		"switch":   "မြန်မာ",
	},
	domain.LangMy: {
		"title":    "ကျွန်ုပ်တို့၏ ပစ္စည်းများ",
		"all":      "အားလုံး",
		"high":     "အရည်အသွေးမြင့်",
		"medium":   "အရည်အသွေးအလယ်အလတ်",
		"low":      "အရည်အသွေးနိမ့်",
		"contact":  "ဆက်သွယ်ရန်",
		"faq":      "မေးလေ့ရှိသောမေးခွန်းများ",
		"empty":    "ပစ္စည်းမရှိသေးပါ။",
		"notfound": "စာမျက်နှာ မတွေ့ပါ",
		"switch":   "English",
	},
}

// langOf resolves the request language once per request.
func langOf(c *fiber.Ctx) string {
	if lang, ok := c.Locals("lang").(string); ok {
		return lang
	}
	lang := i18n.Resolve(c)
	c.Locals("lang", lang)
	return lang
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	lang := langOf(c)
	data["Lang"] = lang
	data["T"] = labels[lang]
	if lang == domain.LangMy {
		data["OtherLang"] = domain.LangEn
	} else {
		data["OtherLang"] = domain.LangMy
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	return c.Render(tmpl, data)
}

// NotFoundPage renders the friendly error page with status.
func NotFoundPage(c *fiber.Ctx, status int, msg string) error {
	c.Status(status)
	return render(c, "notfound", fiber.Map{"Message": msg})
}
