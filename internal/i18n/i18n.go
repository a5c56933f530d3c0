// Package i18n picks the display language (English or Myanmar) for a request.
package i18n

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"mmcatalog/internal/domain"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "lang"
)

var (
	supported = []language.Tag{language.English, language.Burmese}
	matcher   = language.NewMatcher(supported)
)

// Match maps any language tag string ("my-MM", "en-GB", ...) onto en or my.
// ok is false when the value does not parse.
func Match(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.LangEn, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return domain.LangEn, false
	}
	return code(tag), true
}

func code(tag language.Tag) string {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx != 1 {
		return domain.LangEn
	}
	return domain.LangMy
}

// Resolve returns the language for the request: ?lang wins and is remembered
// in a cookie, then the cookie, then Accept-Language, then English.
func Resolve(c *fiber.Ctx) string {
	if v := c.Query(LangParam); v != "" {
		if lang, ok := Match(v); ok {
			c.Cookie(&fiber.Cookie{
				Name:     LangCookieName,
				Value:    lang,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				SameSite: fiber.CookieSameSiteLaxMode,
			})
			return lang
		}
	}
	if v := c.Cookies(LangCookieName); v != "" {
		if lang, ok := Match(v); ok {
			return lang
		}
	}
	if accept := strings.TrimSpace(c.Get(fiber.HeaderAcceptLanguage)); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			tag, _ := language.MatchStrings(matcher, accept)
			return code(tag)
		}
	}
	return domain.LangEn
}
