package services

import (
	"encoding/json"

	"mmcatalog/internal/domain"
	"mmcatalog/internal/repos"
	"mmcatalog/internal/validate"
)

// SiteService manages the storefront's non-product data: content sections,
// contact channels and the FAQ.
type SiteService struct {
	Repo repos.Repository
}

func NewSiteService(repo repos.Repository) *SiteService { return &SiteService{Repo: repo} }

func (s *SiteService) Content() ([]domain.SiteContent, error) { return s.Repo.SiteContent() }

// Section returns nil when the section has never been written.
func (s *SiteService) Section(section string) (*domain.SiteContent, error) {
	section, ok := validate.Section(section)
	if !ok {
		return nil, nil
	}
	return s.Repo.SiteContentBySection(section)
}

// SaveSection replaces the section's content document. The document must be
// a JSON object ({"en": ..., "my": ...}).
func (s *SiteService) SaveSection(section string, content json.RawMessage) (*domain.SiteContent, error) {
	section, ok := validate.Section(section)
	if !ok {
		return nil, invalid("section", "must be a lowercase slug")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(content, &obj); err != nil || obj == nil {
		return nil, invalid("content", "must be a JSON object")
	}
	return s.Repo.UpsertSiteContent(section, content)
}

func (s *SiteService) Contacts(includeInactive bool) ([]domain.ContactInfo, error) {
	if includeInactive {
		return s.Repo.AllContacts()
	}
	return s.Repo.Contacts()
}

func (s *SiteService) SaveContact(platform string, patch domain.ContactPatch) (*domain.ContactInfo, error) {
	platform, ok := validate.Platform(platform)
	if !ok {
		return nil, invalid("platform", "must be a lowercase slug")
	}
	if patch.URL != nil {
		u, ok := validate.URL(*patch.URL)
		if !ok {
			return nil, invalid("url", "must be an http(s) URL")
		}
		patch.URL = &u
	}
	if patch.QRCode != nil {
		qr, ok := validate.URL(*patch.QRCode)
		if !ok {
			return nil, invalid("qrCode", "must be an http(s) URL or site path")
		}
		patch.QRCode = &qr
	}
	return s.Repo.UpsertContact(platform, patch)
}

func (s *SiteService) Faq(includeInactive bool) ([]domain.FaqItem, error) {
	if includeInactive {
		return s.Repo.AllFaqItems()
	}
	return s.Repo.FaqItems()
}

func (s *SiteService) CreateFaq(in domain.NewFaqItem) (*domain.FaqItem, error) {
	if !validate.Bilingual(in.Question) {
		return nil, invalid("question", "required")
	}
	if !validate.Bilingual(in.Answer) {
		return nil, invalid("answer", "required")
	}
	return s.Repo.CreateFaqItem(in)
}

// UpdateFaq returns (nil, nil) when the item does not exist.
func (s *SiteService) UpdateFaq(id string, patch domain.FaqPatch) (*domain.FaqItem, error) {
	id, ok := validate.ID(id)
	if !ok {
		return nil, nil
	}
	if patch.Question != nil && !validate.Bilingual(*patch.Question) {
		return nil, invalid("question", "cannot be empty")
	}
	if patch.Answer != nil && !validate.Bilingual(*patch.Answer) {
		return nil, invalid("answer", "cannot be empty")
	}
	return s.Repo.UpdateFaqItem(id, patch)
}

func (s *SiteService) DeleteFaq(id string) bool {
	id, ok := validate.ID(id)
	if !ok {
		return false
	}
	return s.Repo.DeleteFaqItem(id)
}
