package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fstore/fstore-api/internal/domains/orders/domain"
)

// LineItem is one requested order line.
type LineItem struct {
	ProductID int64
	Quantity  int
	Discount  float64
}

// OrderSummary pairs an order with its member, when the member resolves.
type OrderSummary struct {
	Order  domain.Order
	Member *domain.Member
}

// DetailView is one order line joined with its product name.
type DetailView struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Discount    float64
}

// OrderView is the full read view of a single order.
type OrderView struct {
	OrderSummary
	Details []DetailView
}

// Service exposes the order workflow use cases to adapters.
type Service interface {
	ListOrders(ctx context.Context, page Page) ([]*OrderSummary, error)
	GetOrder(ctx context.Context, id int64) (*OrderView, error)
	CreateOrder(ctx context.Context, memberID int64, items []LineItem) (*OrderSummary, error)
	UpdateOrder(ctx context.Context, id int64, items []LineItem) (*OrderSummary, error)
	DeleteOrder(ctx context.Context, id int64) (*OrderSummary, error)
	CancelOrder(ctx context.Context, id int64) (*OrderSummary, error)
	ShipOrder(ctx context.Context, id int64) (*OrderSummary, error)
}
