package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShip_TransitionsOnce(t *testing.T) {
	order := NewOrder(1, time.Now(), []OrderDetail{{ProductID: 1, Quantity: 2}})
	require.Nil(t, order.ShippedDate)

	shippedAt := time.Now()
	require.NoError(t, order.Ship(shippedAt))
	require.NotNil(t, order.ShippedDate)
	assert.True(t, order.ShippedDate.Equal(shippedAt))

	err := order.Ship(time.Now())
	require.ErrorIs(t, err, ErrAlreadyShipped)
	assert.True(t, order.ShippedDate.Equal(shippedAt))
}

func TestDetailByProduct(t *testing.T) {
	order := NewOrder(1, time.Now(), []OrderDetail{
		{ProductID: 10, Quantity: 2},
		{ProductID: 20, Quantity: 5},
	})

	detail := order.DetailByProduct(20)
	require.NotNil(t, detail)
	assert.Equal(t, 5, detail.Quantity)

	// The pointer aliases the slice so callers can mutate the line in place.
	detail.Quantity = 7
	assert.Equal(t, 7, order.Details[1].Quantity)

	assert.Nil(t, order.DetailByProduct(30))
}

func TestValidateLineItem(t *testing.T) {
	require.NoError(t, ValidateLineItem(1, 0))
	require.NoError(t, ValidateLineItem(3, 100))

	require.ErrorIs(t, ValidateLineItem(1, -0.5), ErrDiscountOutOfRange)
	require.ErrorIs(t, ValidateLineItem(1, 100.5), ErrDiscountOutOfRange)
	require.ErrorIs(t, ValidateLineItem(0, 10), ErrQuantityNotPositive)
	require.ErrorIs(t, ValidateLineItem(-2, 10), ErrQuantityNotPositive)
}
