package domain

import (
	"encoding/json"
	"time"
)

// Create payloads. Optional fields left nil are defaulted by Build.

type NewProduct struct {
	Name           Bilingual      `json:"name"`
	Description    Bilingual      `json:"description"`
	Quality        Quality        `json:"quality"`
	Images         []string       `json:"images"`
	Videos         []string       `json:"videos"`
	Specifications *BilingualList `json:"specifications"`
	IsActive       *bool          `json:"isActive"`
}

func (n NewProduct) Build(id string, now time.Time) Product {
	specs := BilingualList{}
	if n.Specifications != nil {
		specs = *n.Specifications
	}
	return Product{
		ID:             id,
		Name:           n.Name,
		Description:    n.Description,
		Quality:        n.Quality,
		Images:         nonNil(n.Images),
		Videos:         nonNil(n.Videos),
		Specifications: specs.normalized(),
		IsActive:       boolOr(n.IsActive, true),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

type NewFaqItem struct {
	Question Bilingual `json:"question"`
	Answer   Bilingual `json:"answer"`
	Order    int       `json:"order"`
	IsActive *bool     `json:"isActive"`
}

func (n NewFaqItem) Build(id string, now time.Time) FaqItem {
	return FaqItem{
		ID:        id,
		Question:  n.Question,
		Answer:    n.Answer,
		Order:     n.Order,
		IsActive:  boolOr(n.IsActive, true),
		UpdatedAt: now,
	}
}

// Partial updates. A nil field is left untouched; list fields replace the
// stored list as a whole. JSON null decodes to nil, so clearing a list takes [].

type ProductPatch struct {
	Name           *Bilingual     `json:"name"`
	Description    *Bilingual     `json:"description"`
	Quality        *Quality       `json:"quality"`
	Images         *[]string      `json:"images"`
	Videos         *[]string      `json:"videos"`
	Specifications *BilingualList `json:"specifications"`
	IsActive       *bool          `json:"isActive"`
}

func (p ProductPatch) Apply(dst *Product, now time.Time) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Quality != nil {
		dst.Quality = *p.Quality
	}
	if p.Images != nil {
		dst.Images = nonNil(*p.Images)
	}
	if p.Videos != nil {
		dst.Videos = nonNil(*p.Videos)
	}
	if p.Specifications != nil {
		dst.Specifications = p.Specifications.normalized()
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
	dst.UpdatedAt = now
}

type ContactPatch struct {
	URL      *string `json:"url"`
	QRCode   *string `json:"qrCode"` // "" clears the stored code
	IsActive *bool   `json:"isActive"`
}

func (p ContactPatch) Apply(dst *ContactInfo, now time.Time) {
	if p.URL != nil {
		dst.URL = *p.URL
	}
	if p.QRCode != nil {
		if *p.QRCode == "" {
			dst.QRCode = nil
		} else {
			qr := *p.QRCode
			dst.QRCode = &qr
		}
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
	dst.UpdatedAt = now
}

// Build seeds a contact row for a platform that has none yet.
func (p ContactPatch) Build(id, platform string, now time.Time) ContactInfo {
	c := ContactInfo{ID: id, Platform: platform, URL: "", IsActive: true}
	p.Apply(&c, now)
	return c
}

type FaqPatch struct {
	Question *Bilingual `json:"question"`
	Answer   *Bilingual `json:"answer"`
	Order    *int       `json:"order"`
	IsActive *bool      `json:"isActive"`
}

func (p FaqPatch) Apply(dst *FaqItem, now time.Time) {
	if p.Question != nil {
		dst.Question = *p.Question
	}
	if p.Answer != nil {
		dst.Answer = *p.Answer
	}
	if p.Order != nil {
		dst.Order = *p.Order
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
	dst.UpdatedAt = now
}

// NewSiteContent seeds a content row for a section that has none yet.
func NewSiteContent(id, section string, content json.RawMessage, now time.Time) SiteContent {
	return SiteContent{ID: id, Section: section, Content: cloneRaw(content), UpdatedAt: now}
}

func (b BilingualList) normalized() BilingualList {
	return BilingualList{En: nonNil(b.En), My: nonNil(b.My)}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return json.RawMessage("null")
	}
	out := make(json.RawMessage, len(r))
	copy(out, r)
	return out
}

// Clone returns a deep copy so stored rows never alias caller memory.
func (p Product) Clone() Product {
	p.Images = nonNil(p.Images)
	p.Videos = nonNil(p.Videos)
	p.Specifications = p.Specifications.normalized()
	return p
}

func (c ContactInfo) Clone() ContactInfo {
	if c.QRCode != nil {
		qr := *c.QRCode
		c.QRCode = &qr
	}
	return c
}

func (s SiteContent) Clone() SiteContent {
	s.Content = cloneRaw(s.Content)
	return s
}
