package repos

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"mmcatalog/internal/domain"
)

// ErrDuplicate marks a write rejected by a unique key (username, platform,
// section). The backend error, when there is one, stays in the chain.
var ErrDuplicate = errors.New("duplicate key")

// Repository is the storage contract shared by the in-memory and database
// backends. Lookups of missing ids return (nil, nil); deletes of missing ids
// return false. List methods never return nil slices.
type Repository interface {
	User(id string) (*domain.User, error)
	UserByUsername(username string) (*domain.User, error)
	CreateUser(u domain.NewUser) (*domain.User, error)

	// Products lists active products, newest first. quality "" or "all"
	// disables the tier filter.
	Products(quality string) ([]domain.Product, error)
	// AllProducts is Products without the active filter (admin screens).
	AllProducts(quality string) ([]domain.Product, error)
	Product(id string) (*domain.Product, error)
	CreateProduct(p domain.NewProduct) (*domain.Product, error)
	UpdateProduct(id string, p domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(id string) bool

	SiteContent() ([]domain.SiteContent, error)
	SiteContentBySection(section string) (*domain.SiteContent, error)
	UpsertSiteContent(section string, content json.RawMessage) (*domain.SiteContent, error)

	Contacts() ([]domain.ContactInfo, error)
	AllContacts() ([]domain.ContactInfo, error)
	UpsertContact(platform string, p domain.ContactPatch) (*domain.ContactInfo, error)

	// FaqItems lists active items by display order; equal orders keep
	// insertion order.
	FaqItems() ([]domain.FaqItem, error)
	AllFaqItems() ([]domain.FaqItem, error)
	CreateFaqItem(f domain.NewFaqItem) (*domain.FaqItem, error)
	UpdateFaqItem(id string, f domain.FaqPatch) (*domain.FaqItem, error)
	DeleteFaqItem(id string) bool

	// Backend names the implementation: memory, sqlite or postgres.
	Backend() string
	Close() error
}

// Clock hands out UTC timestamps at microsecond precision (what both
// backends can round-trip) that never repeat within the process.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time { return c.After(time.Time{}) }

// After returns a fresh timestamp strictly later than prev.
func (c *Clock) After(prev time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	if !t.After(prev) {
		t = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	c.last = t
	return t
}

func wantQuality(filter string, q domain.Quality) bool {
	return filter == "" || filter == domain.QualityAll || string(q) == filter
}
