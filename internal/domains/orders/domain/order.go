// Package domain holds the order aggregate and its invariants.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyDetails        = errors.New("order details cannot be empty")
	ErrDiscountOutOfRange  = errors.New("discount must be between 0 and 100")
	ErrQuantityNotPositive = errors.New("quantity must be greater than 0")
	ErrAlreadyShipped      = errors.New("order has already been shipped")
)

// Order is the purchase aggregate. Details carry the stock reservations: a
// line's quantity stays subtracted from the product's stock until the line is
// removed or reduced.
type Order struct {
	ID           int64
	MemberID     int64
	OrderDate    time.Time
	RequiredDate *time.Time
	ShippedDate  *time.Time
	Freight      decimal.Decimal
	Details      []OrderDetail
}

// OrderDetail is one line of an order. UnitPrice is the product's price
// snapshot taken at creation time and is never refreshed afterwards.
type OrderDetail struct {
	ID        int64
	OrderID   int64
	ProductID int64
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  float64
}

// Member places orders. Referenced, never mutated, by the workflow.
type Member struct {
	ID    int64
	Email string
}

// NewOrder constructs an order opened at the given time.
func NewOrder(memberID int64, orderDate time.Time, details []OrderDetail) *Order {
	return &Order{
		MemberID:  memberID,
		OrderDate: orderDate,
		Details:   details,
	}
}

// Ship marks the order shipped. The transition happens exactly once.
func (o *Order) Ship(at time.Time) error {
	if o.ShippedDate != nil {
		return ErrAlreadyShipped
	}
	o.ShippedDate = &at
	return nil
}

// DetailByProduct returns the line item reserving the given product, or nil.
func (o *Order) DetailByProduct(productID int64) *OrderDetail {
	for i := range o.Details {
		if o.Details[i].ProductID == productID {
			return &o.Details[i]
		}
	}
	return nil
}

// ValidateLineItem checks the request-level constraints shared by create and
// update.
func ValidateLineItem(quantity int, discount float64) error {
	if discount < 0 || discount > 100 {
		return ErrDiscountOutOfRange
	}
	if quantity <= 0 {
		return ErrQuantityNotPositive
	}
	return nil
}
