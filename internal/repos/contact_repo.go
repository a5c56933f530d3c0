package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mmcatalog/internal/domain"
)

type ContactRepo struct {
	db    *sqlx.DB
	clock *Clock

	// lookup finds the platform's row; swapped in tests to simulate a
	// concurrent insert.
	lookup func(platform string) (*domain.ContactInfo, error)
}

func NewContactRepo(db *sqlx.DB, clock *Clock) *ContactRepo {
	r := &ContactRepo{db: db, clock: clock}
	r.lookup = r.contactByPlatform
	return r
}

type contactRow struct {
	ID        string         `db:"id"`
	Platform  string         `db:"platform"`
	URL       string         `db:"url"`
	QRCode    sql.NullString `db:"qr_code"`
	IsActive  bool           `db:"is_active"`
	UpdatedAt dbTime         `db:"updated_at"`
}

func (r contactRow) toDomain() domain.ContactInfo {
	c := domain.ContactInfo{
		ID:        r.ID,
		Platform:  r.Platform,
		URL:       r.URL,
		IsActive:  r.IsActive,
		UpdatedAt: r.UpdatedAt.Time(),
	}
	if r.QRCode.Valid {
		qr := r.QRCode.String
		c.QRCode = &qr
	}
	return c
}

func qrArg(c domain.ContactInfo) sql.NullString {
	if c.QRCode == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *c.QRCode, Valid: true}
}

const contactCols = `id, platform, url, qr_code, is_active, updated_at`

func (r *ContactRepo) Contacts() ([]domain.ContactInfo, error) {
	return r.list(`SELECT ` + contactCols + ` FROM contact_info WHERE is_active = TRUE ORDER BY platform`)
}

func (r *ContactRepo) AllContacts() ([]domain.ContactInfo, error) {
	return r.list(`SELECT ` + contactCols + ` FROM contact_info ORDER BY platform`)
}

func (r *ContactRepo) list(q string) ([]domain.ContactInfo, error) {
	var rows []contactRow
	if err := r.db.Select(&rows, q); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]domain.ContactInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ContactRepo) contactByPlatform(platform string) (*domain.ContactInfo, error) {
	var row contactRow
	err := r.db.Get(&row, r.db.Rebind(`SELECT `+contactCols+` FROM contact_info WHERE platform = ?`), platform)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	c := row.toDomain()
	return &c, nil
}

// UpsertContact merges the patch into the platform's row, creating the row
// (url "" and active unless the patch says otherwise) when there is none.
// A lost insert race is retried once as an update.
func (r *ContactRepo) UpsertContact(platform string, patch domain.ContactPatch) (*domain.ContactInfo, error) {
	c, err := r.upsertContact(platform, patch)
	if errors.Is(err, ErrDuplicate) {
		c, err = r.upsertContact(platform, patch)
	}
	return c, err
}

func (r *ContactRepo) upsertContact(platform string, patch domain.ContactPatch) (*domain.ContactInfo, error) {
	existing, err := r.lookup(platform)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		c := patch.Build(uuid.NewString(), platform, r.clock.Now())
		_, err := r.db.Exec(r.db.Rebind(`INSERT INTO contact_info(`+contactCols+`) VALUES (?, ?, ?, ?, ?, ?)`),
			c.ID, c.Platform, c.URL, qrArg(c), c.IsActive, dbTime(c.UpdatedAt))
		if err != nil {
			return nil, dupErr("insert contact", err)
		}
		return &c, nil
	}

	patch.Apply(existing, r.clock.After(existing.UpdatedAt))
	_, err = r.db.Exec(r.db.Rebind(`UPDATE contact_info SET url = ?, qr_code = ?, is_active = ?, updated_at = ? WHERE id = ?`),
		existing.URL, qrArg(*existing), existing.IsActive, dbTime(existing.UpdatedAt), existing.ID)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return existing, nil
}
