// Package application orchestrates the catalog bounded context use cases.
package application

import (
	"context"
	"fmt"

	"github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/catalog/ports"
)

// Service orchestrates product catalog use cases.
type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
}

// NewService wires the catalog service with its repositories.
func NewService(products ports.ProductRepository, categories ports.CategoryRepository) *Service {
	return &Service{products: products, categories: categories}
}

// List returns a page of products.
func (s *Service) List(ctx context.Context, page ports.Page) ([]*domain.Product, error) {
	return s.products.List(ctx, page)
}

// GetByID loads a product together with its category name.
func (s *Service) GetByID(ctx context.Context, id int64) (*ports.ProductDetail, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &ports.ProductDetail{Product: *product}
	if product.CategoryID != nil {
		if category, err := s.categories.GetByID(ctx, *product.CategoryID); err == nil {
			detail.CategoryName = category.CategoryName
		}
	}
	return detail, nil
}

// Create validates the referenced category and persists a new product.
func (s *Service) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(0, &category.ID, input.ProductName, input.Weight, input.UnitPrice, input.UnitsInStock)
	if err != nil {
		return nil, mapError(err)
	}
	return s.products.Save(ctx, product)
}

// Update overwrites an existing product with new state.
func (s *Service) Update(ctx context.Context, id int64, input ports.ProductInput) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	existing.ProductName = input.ProductName
	existing.CategoryID = &category.ID
	existing.Weight = input.Weight
	existing.UnitPrice = input.UnitPrice
	existing.UnitsInStock = input.UnitsInStock
	if err := existing.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.products.Save(ctx, existing)
}

// Delete removes a product and returns the deleted snapshot.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return nil, err
	}
	return existing, nil
}

// Search selects products by keyword or price range. The criteria are
// mutually exclusive; supplying neither yields an empty result.
func (s *Service) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Product, error) {
	hasKeyword := filter.Keyword != nil && *filter.Keyword != ""
	hasRange := filter.MinPrice != nil || filter.MaxPrice != nil
	switch {
	case hasKeyword && hasRange:
		return nil, fmt.Errorf("%w: keyword and price range cannot be combined", ErrInvalidSearch)
	case hasKeyword:
		return s.products.FindByNameContains(ctx, *filter.Keyword, filter.Page)
	case hasRange:
		if filter.MinPrice == nil || filter.MaxPrice == nil {
			return nil, fmt.Errorf("%w: both minPrice and maxPrice are required", ErrInvalidSearch)
		}
		if filter.MinPrice.GreaterThan(*filter.MaxPrice) {
			return nil, fmt.Errorf("%w: minPrice must not exceed maxPrice", ErrInvalidSearch)
		}
		return s.products.FindByPriceRange(ctx, *filter.MinPrice, *filter.MaxPrice, filter.Page)
	default:
		return []*domain.Product{}, nil
	}
}

var _ ports.Service = (*Service)(nil)
