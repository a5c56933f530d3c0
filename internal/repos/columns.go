package repos

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// jsonText stores a value as a JSON document (TEXT on SQLite, JSONB on
// PostgreSQL).
type jsonText[T any] struct{ V T }

func (j jsonText[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *jsonText[T]) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("json column: unsupported type %T", src)
	}
	return json.Unmarshal(b, &j.V)
}

// rawJSON is jsonText for opaque payloads that are passed through untouched.
type rawJSON json.RawMessage

func (r rawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "null", nil
	}
	return string(r), nil
}

func (r *rawJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = rawJSON("null")
	case []byte:
		*r = append(rawJSON(nil), v...)
	case string:
		*r = rawJSON(v)
	default:
		return fmt.Errorf("json column: unsupported type %T", src)
	}
	return nil
}

// tsLayout is fixed width so TEXT columns sort chronologically on SQLite.
const tsLayout = "2006-01-02T15:04:05.000000Z07:00"

// dbTime is written as a fixed-width UTC string; PostgreSQL parses it into
// TIMESTAMPTZ and hands back a time.Time.
type dbTime time.Time

func (t dbTime) Value() (driver.Value, error) {
	return time.Time(t).UTC().Format(tsLayout), nil
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = dbTime{}
	case time.Time:
		*t = dbTime(v.UTC())
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("timestamp column: unsupported type %T", src)
	}
	return nil
}

func (t *dbTime) parse(s string) error {
	p, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp column: %w", err)
	}
	*t = dbTime(p.UTC())
	return nil
}

func (t dbTime) Time() time.Time { return time.Time(t) }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch code := sqErr.Code(); {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case code&0xff == sqlite3.SQLITE_CONSTRAINT:
			// extended codes off: fall back to the message
			return strings.Contains(sqErr.Error(), "UNIQUE")
		}
	}
	return false
}

// dupErr tags unique violations with ErrDuplicate, keeping the driver error.
func dupErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
