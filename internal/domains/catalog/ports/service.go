package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fstore/fstore-api/internal/domains/catalog/domain"
)

// ProductInput carries the writable fields for create and update.
type ProductInput struct {
	ProductName  string
	CategoryID   int64
	Weight       string
	UnitPrice    decimal.Decimal
	UnitsInStock int
}

// ProductDetail is the read view joining a product with its category name.
type ProductDetail struct {
	Product      domain.Product
	CategoryName string
}

// SearchFilter selects products by keyword or price range. The two criteria
// are mutually exclusive; supplying both is rejected, supplying neither
// yields an empty result.
type SearchFilter struct {
	Keyword  *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     Page
}

// Service exposes catalog use cases to adapters.
type Service interface {
	List(ctx context.Context, page Page) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*ProductDetail, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (*domain.Product, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Product, error)
}
