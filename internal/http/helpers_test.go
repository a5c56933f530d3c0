package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"mmcatalog/internal/config"
	"mmcatalog/internal/http/handlers"
	"mmcatalog/internal/media"
	"mmcatalog/internal/repos"
	"mmcatalog/internal/services"
)

const (
	testAdmin    = "admin"
	testPassword = "Passw0rd!"
)

type testEnv struct {
	app  *fiber.App
	repo repos.Repository
	auth *services.AuthService
}

// newTestApp wires the real routes on top of repo with a bootstrapped admin.
// loginLimit may be nil.
func newTestApp(t *testing.T, repo repos.Repository, loginLimit fiber.Handler) *testEnv {
	t.Helper()
	cfg := config.Config{MediaDir: t.TempDir(), UploadMaxDim: 200}
	tokens, err := services.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	authSvc := services.NewAuthService(repo, tokens)
	if err := authSvc.EnsureAdmin(testAdmin, testPassword); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    handlers.MaxUploadBytes + 1<<20,
	})
	app.Use(requestid.New())
	app.Use(handlers.LimitBody(1<<20, "/api/uploads"))

	deps := handlers.NewDeps(repo, cfg, authSvc, media.NewLocalSink(cfg.MediaDir))
	handlers.Mount(app, deps, loginLimit)
	app.Use(func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	return &testEnv{app: app, repo: repo, auth: authSvc}
}

func newMemApp(t *testing.T) *testEnv {
	t.Helper()
	return newTestApp(t, repos.NewMemStore(repos.NewClock(nil)), nil)
}

func (e *testEnv) do(t *testing.T, method, target string, body any, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp := e.do(t, "POST", "/api/auth/login", map[string]string{"username": testAdmin, "password": testPassword}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, resp, &out)
	if out.Token == "" {
		t.Fatal("login returned no token")
	}
	return out.Token
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func bodyString(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	Fields map[string]interface{} `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs swaps the standard logger output for the duration of fn and
// returns the structured entries written.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}
