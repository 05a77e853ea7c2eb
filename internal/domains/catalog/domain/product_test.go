package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Validates(t *testing.T) {
	_, err := NewProduct(0, nil, "", "250g", decimal.NewFromInt(10), 5)
	require.ErrorIs(t, err, ErrEmptyProductName)

	_, err = NewProduct(0, nil, "Tea", "250g", decimal.NewFromInt(-1), 5)
	require.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewProduct(0, nil, "Tea", "250g", decimal.NewFromInt(10), -1)
	require.ErrorIs(t, err, ErrNegativeStock)

	product, err := NewProduct(0, nil, "Tea", "250g", decimal.NewFromInt(10), 5)
	require.NoError(t, err)
	assert.Equal(t, "Tea", product.ProductName)
}

func TestReserve_DecrementsStock(t *testing.T) {
	product := &Product{ProductName: "Tea", UnitsInStock: 10}

	require.NoError(t, product.Reserve(4))
	assert.Equal(t, 6, product.UnitsInStock)

	require.NoError(t, product.Reserve(6))
	assert.Equal(t, 0, product.UnitsInStock)
}

func TestReserve_RejectsOverdraw(t *testing.T) {
	product := &Product{ProductName: "Tea", UnitsInStock: 3}

	err := product.Reserve(4)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "(3)")
	assert.Equal(t, 3, product.UnitsInStock)
}

func TestRestockAndAdjustStock(t *testing.T) {
	product := &Product{ProductName: "Tea", UnitsInStock: 2}

	product.Restock(5)
	assert.Equal(t, 7, product.UnitsInStock)

	product.AdjustStock(-3)
	assert.Equal(t, 4, product.UnitsInStock)

	product.AdjustStock(2)
	assert.Equal(t, 6, product.UnitsInStock)
}
