package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"mmcatalog/internal/config"
	"mmcatalog/internal/http/handlers"
	applog "mmcatalog/internal/log"
	"mmcatalog/internal/media"
	"mmcatalog/internal/ratelimit"
	"mmcatalog/internal/repos"
	"mmcatalog/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	repo, err := repos.Open(cfg.DBDSN, cfg.SeedData)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()
	log.Printf("[db] backend=%s", repo.Backend())

	// Auth wiring
	tokens, err := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Printf("[warn] JWT_SECRET not set, admin tokens end with this process")
	}
	authSvc := services.NewAuthService(repo, tokens)
	if err := authSvc.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	// Upload sink
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	var sink media.Sink = media.NewLocalSink(mediaDir)
	if cfg.Minio.Endpoint != "" {
		m := cfg.Minio
		ms, err := media.NewMinioSink(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL, m.PublicURL)
		if err != nil {
			log.Fatal(err)
		}
		sink = ms
		log.Printf("[media] uploads -> minio %s/%s", m.Endpoint, m.Bucket)
	}

	// Shared limiter storage
	var limitStore fiber.Storage
	if cfg.RedisAddr != "" {
		rs, err := ratelimit.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword, "")
		if err != nil {
			log.Fatal(err)
		}
		defer rs.Close()
		limitStore = rs
		log.Printf("[rate] counters in redis %s", cfg.RedisAddr)
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    handlers.MaxUploadBytes + 1<<20,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("start", time.Now())
		return c.Next()
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(handlers.LimitBody(1<<20, "/api/uploads"))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    limitStore,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	// ---------- Static assets ----------
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	app.Get("/media/*", handlers.ServeMedia(mediaDir))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(repo, cfg, authSvc, sink)
	loginLimit := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		Storage:    limitStore,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	})
	handlers.Mount(app, deps, loginLimit)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
