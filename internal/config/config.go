package config

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DBDSN    string `env:"DATABASE_URL"` // empty: in-memory store
	SeedData bool   `env:"SEED_DATA" envDefault:"true"`
	MediaDir string `env:"MEDIA_DIR" envDefault:"./web/media"`
	LogFile  string `env:"LOG_FILE"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
	AdminUsername string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	SecureCookies bool          `env:"SECURE_COOKIES"` // set behind HTTPS

	Minio        MinioConfig `envPrefix:"MINIO_"`
	UploadMaxDim int         `env:"UPLOAD_MAX_DIM" envDefault:"1600"`
}

type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"catalog-media"`
	UseSSL    bool   `env:"USE_SSL"`
	PublicURL string `env:"PUBLIC_URL"` // base URL objects are served from
}

// Load reads the environment. Malformed values are fatal.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("[config] parse env: %v", err)
	}
	cfg.DBDSN = strings.TrimSpace(cfg.DBDSN)
	log.Printf("[config] PORT=%s DATABASE_URL=%s MEDIA_DIR=%s LOG_FILE=%s REDIS_ADDR=%s MINIO_ENDPOINT=%s",
		cfg.Port, mask(cfg.DBDSN), cfg.MediaDir, cfg.LogFile, cfg.RedisAddr, cfg.Minio.Endpoint)
	return cfg
}

var rePassword = regexp.MustCompile(`(?i)(password=)[^&\s]*`)

// mask hides credentials embedded in a connection URL, its query string or
// a libpq keyword string.
func mask(dsn string) string {
	dsn = rePassword.ReplaceAllString(dsn, "${1}***")
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
