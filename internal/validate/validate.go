package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"mmcatalog/internal/domain"
)

var (
	reSlug     = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)
)

// ID validates an entity id (UUID).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return s, true
}

// Quality validates the product tier enum.
func Quality(s string) (domain.Quality, bool) {
	q := domain.Quality(strings.ToLower(strings.TrimSpace(s)))
	return q, q.Valid()
}

// QualityFilter accepts a tier, "all" or nothing.
func QualityFilter(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == domain.QualityAll {
		return s, true
	}
	q, ok := Quality(s)
	return string(q), ok
}

// Platform validates a contact platform key: telegram, whatsapp, messenger
// or any other short lowercase slug.
func Platform(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, len(s) <= 32 && reSlug.MatchString(s)
}

// Section validates a site content section key (about, how-to-order, ...).
func Section(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reSlug.MatchString(s)
}

// URL accepts an absolute http(s) URL, a site-relative path, or empty.
func URL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 2048 {
		return "", false
	}
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return s, true
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return s, true
}

// URLs validates every entry of a media list.
func URLs(list []string) bool {
	for _, s := range list {
		if _, ok := URL(s); !ok || strings.TrimSpace(s) == "" {
			return false
		}
	}
	return true
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 6 && l <= 72
}

// Bilingual requires text in at least one language; the other falls back
// when rendered.
func Bilingual(b domain.Bilingual) bool {
	if b.Empty() {
		return false
	}
	return len(b.En) <= 4000 && len(b.My) <= 4000
}
