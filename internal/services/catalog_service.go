package services

import (
	"mmcatalog/internal/domain"
	"mmcatalog/internal/repos"
	"mmcatalog/internal/validate"
)

type CatalogService struct {
	Repo repos.Repository
}

func NewCatalogService(repo repos.Repository) *CatalogService {
	return &CatalogService{Repo: repo}
}

// ListProducts returns storefront products, newest first.
func (s *CatalogService) ListProducts(quality string) ([]domain.Product, error) {
	q, ok := validate.QualityFilter(quality)
	if !ok {
		return nil, invalid("quality", "must be high, medium, low or all")
	}
	return s.Repo.Products(q)
}

// ListAllProducts includes inactive products.
func (s *CatalogService) ListAllProducts(quality string) ([]domain.Product, error) {
	q, ok := validate.QualityFilter(quality)
	if !ok {
		return nil, invalid("quality", "must be high, medium, low or all")
	}
	return s.Repo.AllProducts(q)
}

// GetProduct returns nil for unknown or malformed ids.
func (s *CatalogService) GetProduct(id string) (*domain.Product, error) {
	id, ok := validate.ID(id)
	if !ok {
		return nil, nil
	}
	return s.Repo.Product(id)
}

func (s *CatalogService) CreateProduct(in domain.NewProduct) (*domain.Product, error) {
	if !validate.Bilingual(in.Name) {
		return nil, invalid("name", "required")
	}
	if !validate.Bilingual(in.Description) {
		return nil, invalid("description", "required")
	}
	q, ok := validate.Quality(string(in.Quality))
	if !ok {
		return nil, invalid("quality", "must be high, medium or low")
	}
	in.Quality = q
	if !validate.URLs(in.Images) {
		return nil, invalid("images", "must be http(s) URLs or site paths")
	}
	if !validate.URLs(in.Videos) {
		return nil, invalid("videos", "must be http(s) URLs or site paths")
	}
	return s.Repo.CreateProduct(in)
}

// UpdateProduct returns (nil, nil) when the product does not exist.
func (s *CatalogService) UpdateProduct(id string, patch domain.ProductPatch) (*domain.Product, error) {
	id, ok := validate.ID(id)
	if !ok {
		return nil, nil
	}
	if patch.Name != nil && !validate.Bilingual(*patch.Name) {
		return nil, invalid("name", "cannot be empty")
	}
	if patch.Description != nil && !validate.Bilingual(*patch.Description) {
		return nil, invalid("description", "cannot be empty")
	}
	if patch.Quality != nil {
		q, ok := validate.Quality(string(*patch.Quality))
		if !ok {
			return nil, invalid("quality", "must be high, medium or low")
		}
		patch.Quality = &q
	}
	if patch.Images != nil && !validate.URLs(*patch.Images) {
		return nil, invalid("images", "must be http(s) URLs or site paths")
	}
	if patch.Videos != nil && !validate.URLs(*patch.Videos) {
		return nil, invalid("videos", "must be http(s) URLs or site paths")
	}
	return s.Repo.UpdateProduct(id, patch)
}

func (s *CatalogService) DeleteProduct(id string) bool {
	id, ok := validate.ID(id)
	if !ok {
		return false
	}
	return s.Repo.DeleteProduct(id)
}
