package http

import (
	"github.com/shopspring/decimal"

	"github.com/fstore/fstore-api/internal/domains/catalog/domain"
	"github.com/fstore/fstore-api/internal/domains/catalog/ports"
)

// ProductRequest is the transport shape for create and update.
type ProductRequest struct {
	ProductName  string          `json:"productName" binding:"required"`
	CategoryID   int64           `json:"categoryId" binding:"required"`
	Weight       string          `json:"weight"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	UnitsInStock int             `json:"unitsInStock"`
}

// ToProductInput converts the transport request into the service input.
func ToProductInput(req ProductRequest) ports.ProductInput {
	return ports.ProductInput{
		ProductName:  req.ProductName,
		CategoryID:   req.CategoryID,
		Weight:       req.Weight,
		UnitPrice:    req.UnitPrice,
		UnitsInStock: req.UnitsInStock,
	}
}

// ProductResponse is the transport shape for a product.
type ProductResponse struct {
	ID           int64           `json:"id"`
	CategoryID   *int64          `json:"categoryId"`
	ProductName  string          `json:"productName"`
	Weight       string          `json:"weight"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	UnitsInStock int             `json:"unitsInStock"`
}

// ProductDetailResponse adds the resolved category name.
type ProductDetailResponse struct {
	ProductResponse
	CategoryName string `json:"categoryName"`
}

// FromProduct converts a domain product to the transport representation.
func FromProduct(product *domain.Product) ProductResponse {
	if product == nil {
		return ProductResponse{}
	}
	return ProductResponse{
		ID:           product.ID,
		CategoryID:   product.CategoryID,
		ProductName:  product.ProductName,
		Weight:       product.Weight,
		UnitPrice:    product.UnitPrice,
		UnitsInStock: product.UnitsInStock,
	}
}

// FromProducts converts a product list.
func FromProducts(products []*domain.Product) []ProductResponse {
	list := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		list = append(list, FromProduct(product))
	}
	return list
}

// FromProductDetail converts the detail view.
func FromProductDetail(detail *ports.ProductDetail) ProductDetailResponse {
	if detail == nil {
		return ProductDetailResponse{}
	}
	return ProductDetailResponse{
		ProductResponse: FromProduct(&detail.Product),
		CategoryName:    detail.CategoryName,
	}
}
