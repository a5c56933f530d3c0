package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"mmcatalog/internal/http/handlers"
	"mmcatalog/internal/repos"
)

func newSQLiteStore(t *testing.T) *repos.DBStore {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := repos.NewDBStore(db, repos.DialectSQLite, repos.NewClock(nil))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// The bootstrap admin is stored as a bcrypt hash, never plaintext.
func TestAdminPasswordStoredHashed(t *testing.T) {
	store := newSQLiteStore(t)
	newTestApp(t, store, nil)

	var hashes []string
	if err := store.DB().Select(&hashes, `SELECT password FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("expected one bootstrap user, got %d", len(hashes))
	}
	for _, h := range hashes {
		if strings.Contains(h, testPassword) {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte(testPassword)); err != nil {
			t.Fatalf("stored hash does not validate known password: %v", err)
		}
	}
}

// Login throttling + success/fail paths.
func TestLoginSuccessFailAndThrottle(t *testing.T) {
	env := newTestApp(t, newSQLiteStore(t), limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}))

	// bad password -> 401
	respBad := env.do(t, "POST", "/api/auth/login", map[string]string{"username": testAdmin, "password": "wrongpass!"}, "")
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}
	if extractCookie(respBad, handlers.AdminCookie) != "" {
		t.Fatal("failed login must not set the admin cookie")
	}

	// good password -> 200 + cookie
	respGood := env.do(t, "POST", "/api/auth/login", map[string]string{"username": testAdmin, "password": testPassword}, "")
	if respGood.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on success, got %d", respGood.StatusCode)
	}
	if extractCookie(respGood, handlers.AdminCookie) == "" {
		t.Fatal("admin cookie not set on success")
	}

	// throttle after 2 attempts
	respThird := env.do(t, "POST", "/api/auth/login", map[string]string{"username": testAdmin, "password": "wrongpass!"}, "")
	if respThird.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", respThird.StatusCode)
	}
}

func TestLoginRejectsMalformed(t *testing.T) {
	env := newMemApp(t)

	resp := env.do(t, "POST", "/api/auth/login", map[string]string{"username": "a b", "password": testPassword}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad username expected 401, got %d", resp.StatusCode)
	}
	resp = env.do(t, "POST", "/api/auth/login", map[string]string{"username": testAdmin, "password": "123"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("short password expected 401, got %d", resp.StatusCode)
	}
	resp = env.do(t, "POST", "/api/auth/login", "not an object", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body expected 400, got %d", resp.StatusCode)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	env := newMemApp(t)
	resp := env.do(t, "POST", "/api/auth/logout", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout expected 200, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == handlers.AdminCookie && c.Value == "" {
			return
		}
	}
	t.Fatal("logout did not clear the admin cookie")
}
