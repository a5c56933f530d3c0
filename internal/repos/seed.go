package repos

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"mmcatalog/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type bilingualYAML struct {
	En string `yaml:"en"`
	My string `yaml:"my"`
}

func (b bilingualYAML) toDomain() domain.Bilingual { return domain.Bilingual{En: b.En, My: b.My} }

// Fixture is a dataset that Seed writes through the Repository contract.
type Fixture struct {
	Products []struct {
		Name           bilingualYAML `yaml:"name"`
		Description    bilingualYAML `yaml:"description"`
		Quality        string        `yaml:"quality"`
		Images         []string      `yaml:"images"`
		Videos         []string      `yaml:"videos"`
		Specifications struct {
			En []string `yaml:"en"`
			My []string `yaml:"my"`
		} `yaml:"specifications"`
		Inactive bool `yaml:"inactive"`
	} `yaml:"products"`
	Contacts []struct {
		Platform string `yaml:"platform"`
		URL      string `yaml:"url"`
		QRCode   string `yaml:"qrCode"`
	} `yaml:"contacts"`
	Faq []struct {
		Question bilingualYAML `yaml:"question"`
		Answer   bilingualYAML `yaml:"answer"`
		Order    int           `yaml:"order"`
	} `yaml:"faq"`
	Content []struct {
		Section string         `yaml:"section"`
		Content map[string]any `yaml:"content"`
	} `yaml:"content"`
}

// ParseFixture decodes a YAML dataset.
func ParseFixture(b []byte) (Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return fx, nil
}

// DemoFixture is the embedded illustrative catalog.
func DemoFixture() Fixture {
	fx, err := ParseFixture(seedYAML)
	if err != nil {
		panic(err) // embedded file, covered by tests
	}
	return fx
}

// Seed writes the fixture through the repository. Products are inserted in
// reverse so the newest-first listing shows them in file order.
func Seed(repo Repository, fx Fixture) error {
	for i := len(fx.Products) - 1; i >= 0; i-- {
		p := fx.Products[i]
		active := !p.Inactive
		_, err := repo.CreateProduct(domain.NewProduct{
			Name:        p.Name.toDomain(),
			Description: p.Description.toDomain(),
			Quality:     domain.Quality(p.Quality),
			Images:      p.Images,
			Videos:      p.Videos,
			Specifications: &domain.BilingualList{
				En: p.Specifications.En,
				My: p.Specifications.My,
			},
			IsActive: &active,
		})
		if err != nil {
			return fmt.Errorf("seed product: %w", err)
		}
	}
	for _, c := range fx.Contacts {
		url := c.URL
		patch := domain.ContactPatch{URL: &url}
		if c.QRCode != "" {
			qr := c.QRCode
			patch.QRCode = &qr
		}
		if _, err := repo.UpsertContact(c.Platform, patch); err != nil {
			return fmt.Errorf("seed contact: %w", err)
		}
	}
	for _, f := range fx.Faq {
		_, err := repo.CreateFaqItem(domain.NewFaqItem{
			Question: f.Question.toDomain(),
			Answer:   f.Answer.toDomain(),
			Order:    f.Order,
		})
		if err != nil {
			return fmt.Errorf("seed faq: %w", err)
		}
	}
	for _, c := range fx.Content {
		raw, err := json.Marshal(c.Content)
		if err != nil {
			return fmt.Errorf("seed content %s: %w", c.Section, err)
		}
		if _, err := repo.UpsertSiteContent(c.Section, raw); err != nil {
			return fmt.Errorf("seed content: %w", err)
		}
	}
	return nil
}

// SeedIfEmpty seeds only a repository without products.
func SeedIfEmpty(repo Repository, fx Fixture) error {
	existing, err := repo.AllProducts("")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	log.Printf("[seed] inserting demo products/contacts/faq/content (%s)", repo.Backend())
	return Seed(repo, fx)
}

// Open builds the Repository for a connection string: empty means the seeded
// in-memory store, anything else a database.
func Open(dsn string, seed bool) (Repository, error) {
	clock := NewClock(nil)
	if dsn == "" {
		s := NewMemStore(clock)
		if err := Seed(s, DemoFixture()); err != nil {
			return nil, err
		}
		log.Printf("[db] DATABASE_URL not set, using in-memory store")
		return s, nil
	}
	db, err := OpenDB(dsn)
	if err != nil {
		return nil, err
	}
	store := NewDBStore(db, Dialect(dsn), clock)
	if seed {
		if err := SeedIfEmpty(store, DemoFixture()); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}
