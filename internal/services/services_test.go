package services_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmcatalog/internal/domain"
	"mmcatalog/internal/repos"
	"mmcatalog/internal/services"
)

func newRepo(t *testing.T) repos.Repository {
	t.Helper()
	return repos.NewMemStore(repos.NewClock(nil))
}

func validProduct() domain.NewProduct {
	return domain.NewProduct{
		Name:        domain.Bilingual{En: "Green tea", My: "လက်ဖက်စိမ်း"},
		Description: domain.Bilingual{En: "Loose leaf"},
		Quality:     "HIGH",
		Images:      []string{"https://cdn.example.com/a.jpg", "/media/b.jpg"},
	}
}

func TestCatalogCreateValidates(t *testing.T) {
	svc := services.NewCatalogService(newRepo(t))

	p, err := svc.CreateProduct(validProduct())
	require.NoError(t, err)
	assert.Equal(t, domain.QualityHigh, p.Quality, "quality is normalised")

	bad := validProduct()
	bad.Quality = "premium"
	_, err = svc.CreateProduct(bad)
	require.ErrorIs(t, err, services.ErrInvalid)
	var fe *services.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "quality", fe.Field)

	bad = validProduct()
	bad.Name = domain.Bilingual{}
	_, err = svc.CreateProduct(bad)
	assert.ErrorIs(t, err, services.ErrInvalid)

	bad = validProduct()
	bad.Images = []string{"javascript:alert(1)"}
	_, err = svc.CreateProduct(bad)
	assert.ErrorIs(t, err, services.ErrInvalid)
}

func TestCatalogListFilter(t *testing.T) {
	svc := services.NewCatalogService(newRepo(t))
	_, err := svc.CreateProduct(validProduct())
	require.NoError(t, err)

	_, err = svc.ListProducts("premium")
	assert.ErrorIs(t, err, services.ErrInvalid)

	got, err := svc.ListProducts("ALL")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.ListProducts("low")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogUpdateUnknownAndMalformed(t *testing.T) {
	svc := services.NewCatalogService(newRepo(t))
	name := domain.Bilingual{En: "x"}

	p, err := svc.UpdateProduct("not-a-uuid", domain.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = svc.UpdateProduct("7b0c2f7e-8a55-4e55-9d0e-5d8a8f3e2c11", domain.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, p)

	assert.False(t, svc.DeleteProduct("not-a-uuid"))
}

func TestSiteSaveSection(t *testing.T) {
	svc := services.NewSiteService(newRepo(t))

	_, err := svc.SaveSection("About Us!", json.RawMessage(`{"en":"x"}`))
	assert.ErrorIs(t, err, services.ErrInvalid)

	_, err = svc.SaveSection("about", json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, services.ErrInvalid)

	c, err := svc.SaveSection("About", json.RawMessage(`{"en":{"title":"Hi"},"my":{"title":"မင်္ဂလာပါ"}}`))
	require.NoError(t, err)
	assert.Equal(t, "about", c.Section)

	got, err := svc.Section("about")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"en":{"title":"Hi"},"my":{"title":"မင်္ဂလာပါ"}}`, string(got.Content))
}

func TestSiteSaveContact(t *testing.T) {
	svc := services.NewSiteService(newRepo(t))

	bad := "ftp://example.com"
	_, err := svc.SaveContact("telegram", domain.ContactPatch{URL: &bad})
	assert.ErrorIs(t, err, services.ErrInvalid)

	_, err = svc.SaveContact("Tele gram", domain.ContactPatch{})
	assert.ErrorIs(t, err, services.ErrInvalid)

	url := "https://t.me/shop"
	off := false
	c, err := svc.SaveContact("Telegram", domain.ContactPatch{URL: &url, IsActive: &off})
	require.NoError(t, err)
	assert.Equal(t, "telegram", c.Platform)

	public, err := svc.Contacts(false)
	require.NoError(t, err)
	assert.Empty(t, public)
	all, err := svc.Contacts(true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSiteFaq(t *testing.T) {
	svc := services.NewSiteService(newRepo(t))

	_, err := svc.CreateFaq(domain.NewFaqItem{Question: domain.Bilingual{En: "Q"}})
	assert.ErrorIs(t, err, services.ErrInvalid)

	f, err := svc.CreateFaq(domain.NewFaqItem{
		Question: domain.Bilingual{En: "Q"},
		Answer:   domain.Bilingual{My: "A"},
		Order:    3,
	})
	require.NoError(t, err)

	order := 1
	upd, err := svc.UpdateFaq(f.ID, domain.FaqPatch{Order: &order})
	require.NoError(t, err)
	assert.Equal(t, 1, upd.Order)

	empty := domain.Bilingual{}
	_, err = svc.UpdateFaq(f.ID, domain.FaqPatch{Answer: &empty})
	assert.ErrorIs(t, err, services.ErrInvalid)

	assert.True(t, svc.DeleteFaq(f.ID))
	assert.False(t, svc.DeleteFaq(f.ID))
}

func TestAuthLoginAndToken(t *testing.T) {
	repo := newRepo(t)
	tokens, err := services.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	auth := services.NewAuthService(repo, tokens)

	require.NoError(t, auth.EnsureAdmin("admin", "s3cret!"))
	require.NoError(t, auth.EnsureAdmin("admin", "other"), "second bootstrap is a no-op")

	stored, err := repo.UserByUsername("admin")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret!", stored.Password, "password is hashed")

	_, _, _, err = auth.Login("admin", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, _, err = auth.Login("nobody", "s3cret!")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	u, tok, exp, err := auth.Login("admin", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, u.ID)
	assert.True(t, exp.After(time.Now()))

	cur, err := auth.CurrentUser(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", cur.Username)

	_, err = auth.CurrentUser(tok + "x")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenFromOtherKeyRejected(t *testing.T) {
	a, err := services.NewTokenIssuer("key-a", time.Hour)
	require.NoError(t, err)
	b, err := services.NewTokenIssuer("key-b", time.Hour)
	require.NoError(t, err)

	tok, _, err := a.Issue("user-1")
	require.NoError(t, err)
	sub, err := a.Subject(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	_, err = b.Subject(tok)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestRegisterDuplicate(t *testing.T) {
	tokens, err := services.NewTokenIssuer("", 0)
	require.NoError(t, err)
	auth := services.NewAuthService(newRepo(t), tokens)

	_, err = auth.Register("alice", "password1")
	require.NoError(t, err)
	_, err = auth.Register("alice", "password2")
	assert.ErrorIs(t, err, repos.ErrDuplicate)
}
