package repos

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmcatalog/internal/domain"
)

func openSQLite(t *testing.T) *DBStore {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBStore(db, DialectSQLite, nil)
}

// missOnce makes the first lookup report no row, as if another writer
// inserted the key right after we looked.
func missOnce[T any](next func(string) (*T, error)) (func(string) (*T, error), *int) {
	calls := 0
	return func(key string) (*T, error) {
		calls++
		if calls == 1 {
			return nil, nil
		}
		return next(key)
	}, &calls
}

func TestContactUpsertRetriesAfterLostInsert(t *testing.T) {
	s := openSQLite(t)
	_, err := s.DB().Exec(`INSERT INTO contact_info(id, platform, url, qr_code, is_active, updated_at) VALUES (?, ?, ?, NULL, ?, ?)`,
		uuid.NewString(), domain.PlatformTelegram, "https://t.me/old", true, dbTime(time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	lookup, calls := missOnce(s.ContactRepo.contactByPlatform)
	s.ContactRepo.lookup = lookup

	c, err := s.UpsertContact(domain.PlatformTelegram, domain.ContactPatch{URL: ptr("https://t.me/new")})
	require.NoError(t, err)
	assert.Equal(t, 2, *calls, "insert should have failed once and been retried")
	assert.Equal(t, "https://t.me/new", c.URL)

	all, err := s.AllContacts()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "https://t.me/new", all[0].URL)
	assert.True(t, all[0].IsActive)
}

func TestSiteContentUpsertRetriesAfterLostInsert(t *testing.T) {
	s := openSQLite(t)
	_, err := s.DB().Exec(`INSERT INTO site_content(id, section, content, updated_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), "about", `{"en":"old"}`, dbTime(time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	lookup, calls := missOnce(func(section string) (*domain.SiteContent, error) {
		return contentBySection(s.DB(), section)
	})
	s.ContentRepo.lookup = lookup

	c, err := s.UpsertSiteContent("about", json.RawMessage(`{"en":"new"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
	assert.JSONEq(t, `{"en":"new"}`, string(c.Content))

	rows, err := s.SiteContent()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"en":"new"}`, string(rows[0].Content))
}

func TestDeleteOnBrokenConnectionReportsFalse(t *testing.T) {
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	s := NewDBStore(db, DialectSQLite, nil)
	p, err := s.CreateProduct(newProduct("Tea", domain.QualityHigh))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var buf bytes.Buffer
	oldW, oldFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	assert.False(t, s.DeleteProduct(p.ID))
	assert.False(t, s.DeleteFaqItem(uuid.NewString()))

	var actions []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e struct {
			Action string         `json:"action"`
			Err    string         `json:"err"`
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &e), line)
		assert.NotEmpty(t, e.Err)
		actions = append(actions, e.Action)
		if e.Action == "store.products.delete.fail" {
			assert.Equal(t, p.ID, e.Fields["id"])
		}
	}
	assert.Equal(t, []string{"store.products.delete.fail", "store.faq_items.delete.fail"}, actions)

	// every other operation propagates the failure
	_, err = s.Products("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list products")
	_, err = s.Product(p.ID)
	assert.Error(t, err)
	_, err = s.UpsertContact(domain.PlatformTelegram, domain.ContactPatch{})
	assert.Error(t, err)
}
