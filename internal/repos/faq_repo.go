package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mmcatalog/internal/domain"
)

type FaqRepo struct {
	db    *sqlx.DB
	clock *Clock
}

func NewFaqRepo(db *sqlx.DB, clock *Clock) *FaqRepo { return &FaqRepo{db: db, clock: clock} }

type faqRow struct {
	ID        string                     `db:"id"`
	Question  jsonText[domain.Bilingual] `db:"question"`
	Answer    jsonText[domain.Bilingual] `db:"answer"`
	Order     int                        `db:"sort_order"`
	IsActive  bool                       `db:"is_active"`
	UpdatedAt dbTime                     `db:"updated_at"`
}

func (r faqRow) toDomain() domain.FaqItem {
	return domain.FaqItem{
		ID:        r.ID,
		Question:  r.Question.V,
		Answer:    r.Answer.V,
		Order:     r.Order,
		IsActive:  r.IsActive,
		UpdatedAt: r.UpdatedAt.Time(),
	}
}

const faqCols = `id, question, answer, sort_order, is_active, updated_at`

func (r *FaqRepo) FaqItems() ([]domain.FaqItem, error) {
	return r.list(`SELECT ` + faqCols + ` FROM faq_items WHERE is_active = TRUE ORDER BY sort_order, seq`)
}

func (r *FaqRepo) AllFaqItems() ([]domain.FaqItem, error) {
	return r.list(`SELECT ` + faqCols + ` FROM faq_items ORDER BY sort_order, seq`)
}

func (r *FaqRepo) list(q string) ([]domain.FaqItem, error) {
	var rows []faqRow
	if err := r.db.Select(&rows, q); err != nil {
		return nil, fmt.Errorf("list faq: %w", err)
	}
	out := make([]domain.FaqItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func getFaq(e sqlx.Ext, id string) (*domain.FaqItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var row faqRow
	err := sqlx.Get(e, &row, e.Rebind(`SELECT `+faqCols+` FROM faq_items WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get faq: %w", err)
	}
	f := row.toDomain()
	return &f, nil
}

// CreateFaqItem appends the item; seq records insertion order.
func (r *FaqRepo) CreateFaqItem(in domain.NewFaqItem) (*domain.FaqItem, error) {
	f := in.Build(uuid.NewString(), r.clock.Now())
	_, err := r.db.Exec(r.db.Rebind(`
  INSERT INTO faq_items(id, question, answer, sort_order, seq, is_active, updated_at)
  VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM faq_items), ?, ?)`),
		f.ID,
		jsonText[domain.Bilingual]{f.Question},
		jsonText[domain.Bilingual]{f.Answer},
		f.Order,
		f.IsActive,
		dbTime(f.UpdatedAt),
	)
	if err != nil {
		return nil, dupErr("insert faq", err)
	}
	return &f, nil
}

func (r *FaqRepo) UpdateFaqItem(id string, patch domain.FaqPatch) (*domain.FaqItem, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	f, err := getFaq(tx, id)
	if err != nil || f == nil {
		return nil, err
	}
	patch.Apply(f, r.clock.After(f.UpdatedAt))
	_, err = tx.Exec(tx.Rebind(`
  UPDATE faq_items
  SET question = ?, answer = ?, sort_order = ?, is_active = ?, updated_at = ?
  WHERE id = ?`),
		jsonText[domain.Bilingual]{f.Question},
		jsonText[domain.Bilingual]{f.Answer},
		f.Order,
		f.IsActive,
		dbTime(f.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update faq: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FaqRepo) DeleteFaqItem(id string) bool {
	return deleteByID(r.db, "faq_items", id)
}
