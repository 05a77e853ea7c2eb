// Package domain holds the catalog aggregates and their invariants.
package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductName  = errors.New("product name must not be empty")
	ErrNegativePrice     = errors.New("unit price must not be negative")
	ErrNegativeStock     = errors.New("units in stock must not be negative")
	ErrInsufficientStock = errors.New("quantity must be less or equal to product's units in stock")
)

// Product models a catalog item. UnitsInStock is the unreserved inventory:
// every open order line holds a reservation that was subtracted from it.
type Product struct {
	ID           int64
	CategoryID   *int64
	ProductName  string
	Weight       string
	UnitPrice    decimal.Decimal
	UnitsInStock int
}

// NewProduct validates and constructs a product aggregate.
func NewProduct(id int64, categoryID *int64, name, weight string, unitPrice decimal.Decimal, unitsInStock int) (*Product, error) {
	product := &Product{
		ID:           id,
		CategoryID:   categoryID,
		ProductName:  name,
		Weight:       weight,
		UnitPrice:    unitPrice,
		UnitsInStock: unitsInStock,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if p.ProductName == "" {
		return ErrEmptyProductName
	}
	if p.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if p.UnitsInStock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Reserve withdraws quantity from stock for an order line. The error carries
// the current stock level so callers can surface the limit.
func (p *Product) Reserve(quantity int) error {
	if quantity > p.UnitsInStock {
		return fmt.Errorf("%w (%d)", ErrInsufficientStock, p.UnitsInStock)
	}
	p.UnitsInStock -= quantity
	return nil
}

// Restock returns previously reserved stock, e.g. when an order is cancelled.
func (p *Product) Restock(quantity int) {
	p.UnitsInStock += quantity
}

// AdjustStock applies a signed stock delta.
func (p *Product) AdjustStock(delta int) {
	p.UnitsInStock += delta
}

// Category groups products.
type Category struct {
	ID           int64
	CategoryName string
}
