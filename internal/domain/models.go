package domain

import (
	"encoding/json"
	"time"
)

// Bilingual holds one display string per supported language.
type Bilingual struct {
	En string `json:"en"`
	My string `json:"my"`
}

// In returns the text for lang, falling back to English when the
// translation is missing.
func (b Bilingual) In(lang string) string {
	if lang == LangMy && b.My != "" {
		return b.My
	}
	return b.En
}

func (b Bilingual) Empty() bool { return b.En == "" && b.My == "" }

type BilingualList struct {
	En []string `json:"en"`
	My []string `json:"my"`
}

func (b BilingualList) In(lang string) []string {
	if lang == LangMy && len(b.My) > 0 {
		return b.My
	}
	return b.En
}

const (
	LangEn = "en"
	LangMy = "my"
)

type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// QualityAll is the list filter sentinel meaning "no filtering".
const QualityAll = "all"

var Qualities = []Quality{QualityHigh, QualityMedium, QualityLow}

func (q Quality) Valid() bool {
	switch q {
	case QualityHigh, QualityMedium, QualityLow:
		return true
	}
	return false
}

type Product struct {
	ID             string        `json:"id"`
	Name           Bilingual     `json:"name"`
	Description    Bilingual     `json:"description"`
	Quality        Quality       `json:"quality"` // high | medium | low
	Images         []string      `json:"images"`
	Videos         []string      `json:"videos"`
	Specifications BilingualList `json:"specifications"`
	IsActive       bool          `json:"isActive"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type SiteContent struct {
	ID        string          `json:"id"`
	Section   string          `json:"section"` // about | how-to-order | ...
	Content   json.RawMessage `json:"content"` // {en: any, my: any}
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Well-known contact platforms. Any other lowercase slug is accepted too.
const (
	PlatformTelegram  = "telegram"
	PlatformWhatsApp  = "whatsapp"
	PlatformMessenger = "messenger"
)

type ContactInfo struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	QRCode    *string   `json:"qrCode"` // image URL, nil when none uploaded
	IsActive  bool      `json:"isActive"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FaqItem struct {
	ID        string    `json:"id"`
	Question  Bilingual `json:"question"`
	Answer    Bilingual `json:"answer"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	UpdatedAt time.Time `json:"updatedAt"`
}
