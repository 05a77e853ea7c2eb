package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fstore/fstore-api/internal/domains/catalog/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Page bounds a repository listing. Index is 1-based.
type Page struct {
	Index int
	Size  int
}

// DefaultPage mirrors the listing defaults of the HTTP surface.
var DefaultPage = Page{Index: 1, Size: 10}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	index := p.Index
	if index < 1 {
		index = 1
	}
	return (index - 1) * p.Limit()
}

// Limit returns the page size, defaulting when unset.
func (p Page) Limit() int {
	if p.Size < 1 {
		return DefaultPage.Size
	}
	return p.Size
}

// ProductRepository exposes the typed queries the catalog needs. The
// capability set is small and enumerable, so there is no generic query
// builder.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, page Page) ([]*domain.Product, error)
	FindByNameContains(ctx context.Context, keyword string, page Page) ([]*domain.Product, error)
	FindByPriceRange(ctx context.Context, min, max decimal.Decimal, page Page) ([]*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository resolves the categories products reference.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}
