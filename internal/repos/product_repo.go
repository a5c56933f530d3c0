package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mmcatalog/internal/domain"
	applog "mmcatalog/internal/log"
)

type ProductRepo struct {
	db    *sqlx.DB
	clock *Clock
}

func NewProductRepo(db *sqlx.DB, clock *Clock) *ProductRepo {
	return &ProductRepo{db: db, clock: clock}
}

type productRow struct {
	ID             string                         `db:"id"`
	Name           jsonText[domain.Bilingual]     `db:"name"`
	Description    jsonText[domain.Bilingual]     `db:"description"`
	Quality        string                         `db:"quality"`
	Images         jsonText[[]string]             `db:"images"`
	Videos         jsonText[[]string]             `db:"videos"`
	Specifications jsonText[domain.BilingualList] `db:"specifications"`
	IsActive       bool                           `db:"is_active"`
	CreatedAt      dbTime                         `db:"created_at"`
	UpdatedAt      dbTime                         `db:"updated_at"`
}

const productCols = `id, name, description, quality, images, videos, specifications, is_active, created_at, updated_at`

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:             r.ID,
		Name:           r.Name.V,
		Description:    r.Description.V,
		Quality:        domain.Quality(r.Quality),
		Images:         r.Images.V,
		Videos:         r.Videos.V,
		Specifications: r.Specifications.V,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt.Time(),
		UpdatedAt:      r.UpdatedAt.Time(),
	}
	return p.Clone()
}

func (r *ProductRepo) Products(quality string) ([]domain.Product, error) {
	return r.list(quality, true)
}

func (r *ProductRepo) AllProducts(quality string) ([]domain.Product, error) {
	return r.list(quality, false)
}

func (r *ProductRepo) list(quality string, activeOnly bool) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if activeOnly {
		where += ` AND is_active = TRUE`
	}
	if quality != "" && quality != domain.QualityAll {
		where += ` AND quality = ?`
		args = append(args, quality)
	}
	q := r.db.Rebind(`
  SELECT ` + productCols + `
  FROM products
  WHERE ` + where + `
  ORDER BY created_at DESC`)

	var rows []productRow
	if err := r.db.Select(&rows, q, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ProductRepo) Product(id string) (*domain.Product, error) {
	return getProduct(r.db, id)
}

func getProduct(e sqlx.Ext, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var row productRow
	err := sqlx.Get(e, &row, e.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	p := row.toDomain()
	return &p, nil
}

func (r *ProductRepo) CreateProduct(in domain.NewProduct) (*domain.Product, error) {
	p := in.Build(uuid.NewString(), r.clock.Now())
	if err := insertProduct(r.db, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func insertProduct(e sqlx.Ext, p domain.Product) error {
	_, err := e.Exec(e.Rebind(`
  INSERT INTO products(`+productCols+`)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID,
		jsonText[domain.Bilingual]{p.Name},
		jsonText[domain.Bilingual]{p.Description},
		string(p.Quality),
		jsonText[[]string]{p.Images},
		jsonText[[]string]{p.Videos},
		jsonText[domain.BilingualList]{p.Specifications},
		p.IsActive,
		dbTime(p.CreatedAt),
		dbTime(p.UpdatedAt),
	)
	return dupErr("insert product", err)
}

// UpdateProduct reads the row, merges the patch and writes every column back
// inside one transaction.
func (r *ProductRepo) UpdateProduct(id string, patch domain.ProductPatch) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := getProduct(tx, id)
	if err != nil || p == nil {
		return nil, err
	}
	patch.Apply(p, r.clock.After(p.UpdatedAt))

	_, err = tx.Exec(tx.Rebind(`
  UPDATE products
  SET name = ?, description = ?, quality = ?, images = ?, videos = ?,
      specifications = ?, is_active = ?, updated_at = ?
  WHERE id = ?`),
		jsonText[domain.Bilingual]{p.Name},
		jsonText[domain.Bilingual]{p.Description},
		string(p.Quality),
		jsonText[[]string]{p.Images},
		jsonText[[]string]{p.Videos},
		jsonText[domain.BilingualList]{p.Specifications},
		p.IsActive,
		dbTime(p.UpdatedAt),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct reports false both for a missing id and for a failed delete.
func (r *ProductRepo) DeleteProduct(id string) bool {
	return deleteByID(r.db, "products", id)
}

func deleteByID(db *sqlx.DB, table, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	res, err := db.Exec(db.Rebind(`DELETE FROM `+table+` WHERE id = ?`), id)
	if err != nil {
		applog.Store("store."+table+".delete.fail", err, map[string]any{"id": id})
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		applog.Store("store."+table+".delete.fail", err, map[string]any{"id": id})
		return false
	}
	return n > 0
}
