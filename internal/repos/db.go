package repos

import (
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Dialect picks the SQL flavour from a connection string. postgres:// and
// postgresql:// URLs and libpq keyword strings ("host=... dbname=...") go to
// PostgreSQL; anything else is a SQLite DSN.
func Dialect(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	for _, field := range strings.Fields(lower) {
		if strings.HasPrefix(field, "host=") || strings.HasPrefix(field, "dbname=") {
			return DialectPostgres
		}
	}
	return DialectSQLite
}

// OpenDB connects and makes sure every table exists.
func OpenDB(dsn string) (*sqlx.DB, error) {
	dialect := Dialect(dsn)
	driver := "sqlite"
	if dialect == DialectPostgres {
		driver = "pgx"
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// One connection: :memory: databases are per connection and SQLite
		// serialises writers anyway.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	if err := ensureSchema(db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	log.Printf("[db] connected (%s)", dialect)
	return db, nil
}

var columnTypes = map[string]*strings.Replacer{
	DialectSQLite: strings.NewReplacer(
		"{json}", "TEXT",
		"{bool}", "INTEGER",
		"{ts}", "TEXT",
	),
	DialectPostgres: strings.NewReplacer(
		"{json}", "JSONB",
		"{bool}", "BOOLEAN",
		"{ts}", "TIMESTAMPTZ",
	),
}

func ensureSchema(db *sqlx.DB, dialect string) error {
	schema := `
-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  created_at {ts} NOT NULL
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name {json} NOT NULL,
  description {json} NOT NULL,
  quality TEXT NOT NULL,
  images {json} NOT NULL DEFAULT '[]',
  videos {json} NOT NULL DEFAULT '[]',
  specifications {json} NOT NULL DEFAULT '{"en":[],"my":[]}',
  is_active {bool} NOT NULL DEFAULT TRUE,
  created_at {ts} NOT NULL,
  updated_at {ts} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_quality    ON products(quality);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Site content (one row per section)
CREATE TABLE IF NOT EXISTS site_content(
  id TEXT PRIMARY KEY,
  section TEXT NOT NULL UNIQUE,
  content {json} NOT NULL,
  updated_at {ts} NOT NULL
);

-- Contact directory (one row per platform)
CREATE TABLE IF NOT EXISTS contact_info(
  id TEXT PRIMARY KEY,
  platform TEXT NOT NULL UNIQUE,
  url TEXT NOT NULL DEFAULT '',
  qr_code TEXT,
  is_active {bool} NOT NULL DEFAULT TRUE,
  updated_at {ts} NOT NULL
);

-- FAQ; seq keeps insertion order for items sharing a sort_order
CREATE TABLE IF NOT EXISTS faq_items(
  id TEXT PRIMARY KEY,
  question {json} NOT NULL,
  answer {json} NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  seq BIGINT NOT NULL,
  is_active {bool} NOT NULL DEFAULT TRUE,
  updated_at {ts} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_faq_items_order ON faq_items(sort_order, seq);
`
	_, err := db.Exec(columnTypes[dialect].Replace(schema))
	return err
}

// DBStore is the relational Repository. Each entity keeps its own repo type;
// DBStore embeds them so their methods form the full contract.
type DBStore struct {
	*UserRepo
	*ProductRepo
	*ContentRepo
	*ContactRepo
	*FaqRepo

	db      *sqlx.DB
	dialect string
}

func NewDBStore(db *sqlx.DB, dialect string, clock *Clock) *DBStore {
	if clock == nil {
		clock = NewClock(nil)
	}
	return &DBStore{
		UserRepo:    NewUserRepo(db, clock),
		ProductRepo: NewProductRepo(db, clock),
		ContentRepo: NewContentRepo(db, clock),
		ContactRepo: NewContactRepo(db, clock),
		FaqRepo:     NewFaqRepo(db, clock),
		db:          db,
		dialect:     dialect,
	}
}

func (s *DBStore) Backend() string { return s.dialect }
func (s *DBStore) Close() error    { return s.db.Close() }
func (s *DBStore) DB() *sqlx.DB    { return s.db }
