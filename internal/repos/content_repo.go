package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mmcatalog/internal/domain"
)

type ContentRepo struct {
	db    *sqlx.DB
	clock *Clock

	lookup func(section string) (*domain.SiteContent, error)
}

func NewContentRepo(db *sqlx.DB, clock *Clock) *ContentRepo {
	r := &ContentRepo{db: db, clock: clock}
	r.lookup = func(section string) (*domain.SiteContent, error) { return contentBySection(r.db, section) }
	return r
}

type contentRow struct {
	ID        string  `db:"id"`
	Section   string  `db:"section"`
	Content   rawJSON `db:"content"`
	UpdatedAt dbTime  `db:"updated_at"`
}

func (r contentRow) toDomain() domain.SiteContent {
	return domain.SiteContent{
		ID:        r.ID,
		Section:   r.Section,
		Content:   json.RawMessage(r.Content),
		UpdatedAt: r.UpdatedAt.Time(),
	}
}

func (r *ContentRepo) SiteContent() ([]domain.SiteContent, error) {
	var rows []contentRow
	if err := r.db.Select(&rows, `SELECT id, section, content, updated_at FROM site_content ORDER BY section`); err != nil {
		return nil, fmt.Errorf("list site content: %w", err)
	}
	out := make([]domain.SiteContent, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ContentRepo) SiteContentBySection(section string) (*domain.SiteContent, error) {
	return contentBySection(r.db, section)
}

func contentBySection(e sqlx.Ext, section string) (*domain.SiteContent, error) {
	var row contentRow
	err := sqlx.Get(e, &row, e.Rebind(`SELECT id, section, content, updated_at FROM site_content WHERE section = ?`), section)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get site content: %w", err)
	}
	c := row.toDomain()
	return &c, nil
}

// UpsertSiteContent updates the section's row or creates it. If another
// writer creates the section between our lookup and insert, the unique index
// rejects the insert and we fall back to updating their row.
func (r *ContentRepo) UpsertSiteContent(section string, content json.RawMessage) (*domain.SiteContent, error) {
	c, err := r.upsertContent(section, content)
	if errors.Is(err, ErrDuplicate) {
		c, err = r.upsertContent(section, content)
	}
	return c, err
}

func (r *ContentRepo) upsertContent(section string, content json.RawMessage) (*domain.SiteContent, error) {
	existing, err := r.lookup(section)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		c := domain.NewSiteContent(uuid.NewString(), section, content, r.clock.Now())
		_, err := r.db.Exec(r.db.Rebind(`INSERT INTO site_content(id, section, content, updated_at) VALUES (?, ?, ?, ?)`),
			c.ID, c.Section, rawJSON(c.Content), dbTime(c.UpdatedAt))
		if err != nil {
			return nil, dupErr("insert site content", err)
		}
		return &c, nil
	}

	existing.Content = content
	existing.UpdatedAt = r.clock.After(existing.UpdatedAt)
	c := existing.Clone()
	_, err = r.db.Exec(r.db.Rebind(`UPDATE site_content SET content = ?, updated_at = ? WHERE id = ?`),
		rawJSON(c.Content), dbTime(c.UpdatedAt), c.ID)
	if err != nil {
		return nil, fmt.Errorf("update site content: %w", err)
	}
	return &c, nil
}
