package repos

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"mmcatalog/internal/domain"
)

// table is an insertion-ordered map.
type table[T any] struct {
	keys []string
	rows map[string]T
}

func newTable[T any]() *table[T] { return &table[T]{rows: map[string]T{}} }

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.keys = append(t.keys, id)
	}
	t.rows[id] = v
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, k := range t.keys {
		if k == id {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}

// find returns the first row, in insertion order, matching fn.
func (t *table[T]) find(fn func(T) bool) (T, bool) {
	for _, k := range t.keys {
		if v := t.rows[k]; fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) filter(fn func(T) bool) []T {
	out := make([]T, 0, len(t.keys))
	for _, k := range t.keys {
		if v := t.rows[k]; fn == nil || fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// MemStore keeps every entity in process memory. Data lives as long as the
// store value; nothing is persisted.
type MemStore struct {
	mu    sync.RWMutex
	clock *Clock

	users    *table[domain.User]
	products *table[domain.Product]
	content  *table[domain.SiteContent]
	contacts *table[domain.ContactInfo]
	faq      *table[domain.FaqItem]
}

// NewMemStore returns an empty store. Use Seed to load the demo dataset.
func NewMemStore(clock *Clock) *MemStore {
	if clock == nil {
		clock = NewClock(nil)
	}
	return &MemStore{
		clock:    clock,
		users:    newTable[domain.User](),
		products: newTable[domain.Product](),
		content:  newTable[domain.SiteContent](),
		contacts: newTable[domain.ContactInfo](),
		faq:      newTable[domain.FaqItem](),
	}
}

func (s *MemStore) Backend() string { return "memory" }
func (s *MemStore) Close() error    { return nil }

// ---------- Users ----------

func (s *MemStore) User(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.get(id)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemStore) UserByUsername(username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.find(func(u domain.User) bool { return u.Username == username })
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemStore) CreateUser(in domain.NewUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users.find(func(u domain.User) bool { return u.Username == in.Username }); taken {
		return nil, fmt.Errorf("create user %q: %w", in.Username, ErrDuplicate)
	}
	u := in.Build(uuid.NewString(), s.clock.Now())
	s.users.put(u.ID, u)
	return &u, nil
}

// ---------- Products ----------

func (s *MemStore) Products(quality string) ([]domain.Product, error) {
	return s.listProducts(quality, true), nil
}

func (s *MemStore) AllProducts(quality string) ([]domain.Product, error) {
	return s.listProducts(quality, false), nil
}

func (s *MemStore) listProducts(quality string, activeOnly bool) []domain.Product {
	s.mu.RLock()
	out := s.products.filter(func(p domain.Product) bool {
		return (!activeOnly || p.IsActive) && wantQuality(quality, p.Quality)
	})
	s.mu.RUnlock()
	for i := range out {
		out[i] = out[i].Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *MemStore) Product(id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products.get(id)
	if !ok {
		return nil, nil
	}
	p = p.Clone()
	return &p, nil
}

func (s *MemStore) CreateProduct(in domain.NewProduct) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := in.Build(uuid.NewString(), s.clock.Now())
	s.products.put(p.ID, p)
	p = p.Clone()
	return &p, nil
}

func (s *MemStore) UpdateProduct(id string, patch domain.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products.get(id)
	if !ok {
		return nil, nil
	}
	patch.Apply(&p, s.clock.After(p.UpdatedAt))
	s.products.put(id, p)
	p = p.Clone()
	return &p, nil
}

func (s *MemStore) DeleteProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products.del(id)
}

// ---------- Site content ----------

func (s *MemStore) SiteContent() ([]domain.SiteContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.content.filter(nil)
	for i := range out {
		out[i] = out[i].Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out, nil
}

func (s *MemStore) SiteContentBySection(section string) (*domain.SiteContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.content.find(func(c domain.SiteContent) bool { return c.Section == section })
	if !ok {
		return nil, nil
	}
	c = c.Clone()
	return &c, nil
}

func (s *MemStore) UpsertSiteContent(section string, content json.RawMessage) (*domain.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.content.find(func(c domain.SiteContent) bool { return c.Section == section })
	if ok {
		c.Content = content
		c.UpdatedAt = s.clock.After(c.UpdatedAt)
		c = c.Clone()
	} else {
		c = domain.NewSiteContent(uuid.NewString(), section, content, s.clock.Now())
	}
	s.content.put(c.ID, c)
	c = c.Clone()
	return &c, nil
}

// ---------- Contacts ----------

func (s *MemStore) Contacts() ([]domain.ContactInfo, error) {
	return s.listContacts(true), nil
}

func (s *MemStore) AllContacts() ([]domain.ContactInfo, error) {
	return s.listContacts(false), nil
}

func (s *MemStore) listContacts(activeOnly bool) []domain.ContactInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.contacts.filter(func(c domain.ContactInfo) bool { return !activeOnly || c.IsActive })
	for i := range out {
		out[i] = out[i].Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out
}

func (s *MemStore) UpsertContact(platform string, patch domain.ContactPatch) (*domain.ContactInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts.find(func(c domain.ContactInfo) bool { return c.Platform == platform })
	if ok {
		patch.Apply(&c, s.clock.After(c.UpdatedAt))
	} else {
		c = patch.Build(uuid.NewString(), platform, s.clock.Now())
	}
	s.contacts.put(c.ID, c)
	c = c.Clone()
	return &c, nil
}

// ---------- FAQ ----------

func (s *MemStore) FaqItems() ([]domain.FaqItem, error) {
	return s.listFaq(true), nil
}

func (s *MemStore) AllFaqItems() ([]domain.FaqItem, error) {
	return s.listFaq(false), nil
}

func (s *MemStore) listFaq(activeOnly bool) []domain.FaqItem {
	s.mu.RLock()
	out := s.faq.filter(func(f domain.FaqItem) bool { return !activeOnly || f.IsActive })
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s *MemStore) CreateFaqItem(in domain.NewFaqItem) (*domain.FaqItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := in.Build(uuid.NewString(), s.clock.Now())
	s.faq.put(f.ID, f)
	return &f, nil
}

func (s *MemStore) UpdateFaqItem(id string, patch domain.FaqPatch) (*domain.FaqItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.faq.get(id)
	if !ok {
		return nil, nil
	}
	patch.Apply(&f, s.clock.After(f.UpdatedAt))
	s.faq.put(id, f)
	return &f, nil
}

func (s *MemStore) DeleteFaqItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faq.del(id)
}
